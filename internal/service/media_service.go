package service

import (
	"context"
	"fmt"
	"time"

	"ai-imagestudio-be/internal/dto"
)

type IMediaService interface {
	Upload(ctx context.Context, req *dto.UploadImageRequest) (*dto.UploadImageResponse, error)
}

type mediaService struct {
	uploader MediaUploader
}

func NewMediaService(uploader MediaUploader) IMediaService {
	return &mediaService{
		uploader: uploader,
	}
}

func (s *mediaService) Upload(ctx context.Context, req *dto.UploadImageRequest) (*dto.UploadImageResponse, error) {
	if req.File == "" {
		return nil, ErrImageRequired
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = fmt.Sprintf("upload-%d.png", time.Now().UnixMilli())
	}

	url, err := s.uploader.Upload(ctx, req.File, fileName)
	if err != nil {
		return nil, err
	}
	return &dto.UploadImageResponse{Url: url}, nil
}
