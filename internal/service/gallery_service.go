package service

import (
	"context"

	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/repository/specification"
	"ai-imagestudio-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IGalleryService interface {
	GetGallery(ctx context.Context, userId uuid.UUID) ([]*dto.GalleryItemResponse, error)
	GetGalleryAsConversation(ctx context.Context, userId uuid.UUID) ([]entity.ConversationTurn, error)
}

type galleryService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewGalleryService(uowFactory unitofwork.RepositoryFactory) IGalleryService {
	return &galleryService{
		uowFactory: uowFactory,
	}
}

func (s *galleryService) GetGallery(ctx context.Context, userId uuid.UUID) ([]*dto.GalleryItemResponse, error) {
	images, err := s.fetch(ctx, userId)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.GalleryItemResponse, 0, len(images))
	for _, img := range images {
		res = append(res, &dto.GalleryItemResponse{
			Id:        img.Id,
			ImageUrl:  img.ImageUrl,
			Prompt:    img.Prompt,
			CreatedAt: img.CreatedAt,
		})
	}
	return res, nil
}

// GetGalleryAsConversation projects the durable gallery into model-role
// turns so the client can rehydrate a chat view from persisted images.
func (s *galleryService) GetGalleryAsConversation(ctx context.Context, userId uuid.UUID) ([]entity.ConversationTurn, error) {
	images, err := s.fetch(ctx, userId)
	if err != nil {
		return nil, err
	}

	turns := make([]entity.ConversationTurn, 0, len(images))
	for _, img := range images {
		parts := []entity.ConversationPart{{Image: img.ImageUrl}}
		if img.Prompt != "" {
			parts = append(parts, entity.ConversationPart{Text: img.Prompt})
		}
		turns = append(turns, entity.ConversationTurn{
			Role:  entity.ConversationRoleModel,
			Parts: parts,
		})
	}
	return turns, nil
}

func (s *galleryService) fetch(ctx context.Context, userId uuid.UUID) ([]*entity.GeneratedImage, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.GenerationRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
}
