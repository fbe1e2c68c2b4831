package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/pkg/cache"
	"ai-imagestudio-be/internal/repository/memory"
	"ai-imagestudio-be/internal/repository/specification"
	"ai-imagestudio-be/internal/repository/unitofwork"
	"ai-imagestudio-be/pkg/genai"

	"github.com/google/uuid"
)

// GeminiEngine is the multimodal engine used for prompt-driven generation
// and iterative editing.
type GeminiEngine interface {
	GenerateImage(ctx context.Context, contents []*genai.Content) (*genai.Result, error)
}

// RapidEngine covers the providers reached through RapidAPI.
type RapidEngine interface {
	GenerateDalleImage(ctx context.Context, prompt string) ([]byte, error)
	GenerateRunwayVideo(ctx context.Context, prompt string) (json.RawMessage, error)
	RemoveBackground(ctx context.Context, imageBase64 string) (string, error)
	SynthesizeSpeech(ctx context.Context, text string) (string, error)
}

// MediaUploader stores generated artifacts and returns a hosted URL.
type MediaUploader interface {
	Upload(ctx context.Context, fileDataURL, fileName string) (string, error)
}

type IGenerationService interface {
	GenerateImage(ctx context.Context, userId uuid.UUID, req *dto.GenerateImageRequest) (*dto.GenerateImageResponse, error)
	TextToSpeech(ctx context.Context, userId uuid.UUID, req *dto.TextToSpeechRequest) (*dto.TextToSpeechResponse, error)
}

type generationService struct {
	uowFactory       unitofwork.RepositoryFactory
	gemini           GeminiEngine
	rapid            RapidEngine
	uploader         MediaUploader
	sessions         *memory.SessionRepository
	balanceCache     cache.IBalanceCache
	publisherService IPublisherService
}

func NewGenerationService(
	uowFactory unitofwork.RepositoryFactory,
	gemini GeminiEngine,
	rapid RapidEngine,
	uploader MediaUploader,
	sessions *memory.SessionRepository,
	balanceCache cache.IBalanceCache,
	publisherService IPublisherService,
) IGenerationService {
	return &generationService{
		uowFactory:       uowFactory,
		gemini:           gemini,
		rapid:            rapid,
		uploader:         uploader,
		sessions:         sessions,
		balanceCache:     balanceCache,
		publisherService: publisherService,
	}
}

// classify resolves the request into one operation of the closed set. The
// background-removal action wins over everything else; otherwise the model
// choice and the presence of an input image decide.
func classify(req *dto.GenerateImageRequest) (entity.OperationKind, entity.Engine, error) {
	if req.Action == "remove-background" {
		if req.Image == "" {
			return "", "", ErrImageRequired
		}
		return entity.OperationBackgroundRemoval, "", nil
	}

	if req.Prompt == "" {
		return "", "", ErrPromptRequired
	}

	switch req.Model {
	case "gen3":
		return entity.OperationTextToImage, entity.EngineGen3, nil
	case "dalle":
		if req.Image != "" {
			return "", "", ErrUnsupportedOperation
		}
		return entity.OperationTextToImage, entity.EngineDallE, nil
	default:
		if req.Image != "" {
			return entity.OperationImageEdit, entity.EngineGemini, nil
		}
		return entity.OperationTextToImage, entity.EngineGemini, nil
	}
}

func (s *generationService) GenerateImage(ctx context.Context, userId uuid.UUID, req *dto.GenerateImageRequest) (*dto.GenerateImageResponse, error) {
	operation, engine, err := classify(req)
	if err != nil {
		return nil, err
	}

	user, debited, err := s.chargeOperation(ctx, userId, operation)
	if err != nil {
		return nil, err
	}

	res, err := s.dispatch(ctx, user, operation, engine, req)
	if err != nil {
		// The user paid for nothing; put the credits back.
		if debited {
			s.refund(ctx, userId, operation)
		}
		return nil, err
	}

	res.Credits = s.remainingCredits(user, debited)
	return res, nil
}

func (s *generationService) TextToSpeech(ctx context.Context, userId uuid.UUID, req *dto.TextToSpeechRequest) (*dto.TextToSpeechResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrTextRequired
	}

	user, debited, err := s.chargeOperation(ctx, userId, entity.OperationTextToSpeech)
	if err != nil {
		return nil, err
	}

	audioUrl, err := s.rapid.SynthesizeSpeech(ctx, req.Text)
	if err != nil {
		if debited {
			s.refund(ctx, userId, entity.OperationTextToSpeech)
		}
		return nil, fmt.Errorf("text to speech: %w", err)
	}

	s.publishCompleted(ctx, &dto.PublishGenerationCompletedMessage{
		UserId:    userId,
		Operation: string(entity.OperationTextToSpeech),
	})

	return &dto.TextToSpeechResponse{
		AudioUrl: audioUrl,
		Credits:  s.remainingCredits(user, debited),
	}, nil
}

// chargeOperation is the server-side gate. Unlimited users pass for free;
// metered users take a guarded atomic debit so two concurrent requests can
// never spend the same credits twice. Returns whether a debit was applied.
func (s *generationService) chargeOperation(ctx context.Context, userId uuid.UUID, operation entity.OperationKind) (*entity.User, bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, false, err
	}
	if user == nil {
		return nil, false, ErrUserNotFound
	}

	if user.PlanTier == entity.PlanTierUnlimited {
		return user, false, nil
	}

	applied, err := uow.UserRepository().DebitCredits(ctx, userId, entity.OperationCost)
	if err != nil {
		return nil, false, err
	}
	if !applied {
		return nil, false, ErrInsufficientCredits
	}

	reference := string(operation)
	debitTxn := &entity.CreditTransaction{
		Id:        uuid.New(),
		UserId:    userId,
		Type:      entity.CreditTransactionDebit,
		Amount:    -entity.OperationCost,
		Reference: &reference,
		CreatedAt: time.Now(),
	}
	if err := uow.CreditTransactionRepository().Create(ctx, debitTxn); err != nil {
		fmt.Printf("[WARN] Failed to record debit transaction for user %s: %v\n", userId, err)
	}

	s.balanceCache.Invalidate(ctx, userId)
	return user, true, nil
}

// refund compensates a failed provider call. Called at most once per
// operation, only when a debit was actually applied.
func (s *generationService) refund(ctx context.Context, userId uuid.UUID, operation entity.OperationKind) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.UserRepository().CreditCredits(ctx, userId, entity.OperationCost); err != nil {
		fmt.Printf("[ERROR] Failed to refund %d credits to user %s: %v\n", entity.OperationCost, userId, err)
		return
	}

	reference := string(operation)
	refundTxn := &entity.CreditTransaction{
		Id:        uuid.New(),
		UserId:    userId,
		Type:      entity.CreditTransactionRefund,
		Amount:    entity.OperationCost,
		Reference: &reference,
		CreatedAt: time.Now(),
	}
	if err := uow.CreditTransactionRepository().Create(ctx, refundTxn); err != nil {
		fmt.Printf("[WARN] Failed to record refund transaction for user %s: %v\n", userId, err)
	}

	s.balanceCache.Invalidate(ctx, userId)
}

func (s *generationService) remainingCredits(user *entity.User, debited bool) int64 {
	if !debited {
		return user.Credits
	}
	return user.Credits - entity.OperationCost
}

func (s *generationService) dispatch(ctx context.Context, user *entity.User, operation entity.OperationKind, engine entity.Engine, req *dto.GenerateImageRequest) (*dto.GenerateImageResponse, error) {
	switch operation {
	case entity.OperationBackgroundRemoval:
		return s.removeBackground(ctx, user, req)
	case entity.OperationImageEdit:
		return s.generateWithGemini(ctx, user, req)
	case entity.OperationTextToImage:
		switch engine {
		case entity.EngineGen3:
			return s.generateWithRunway(ctx, req)
		case entity.EngineDallE:
			return s.generateWithDalle(ctx, user, req)
		default:
			return s.generateWithGemini(ctx, user, req)
		}
	}
	return nil, fmt.Errorf("unhandled operation %q", operation)
}

func (s *generationService) generateWithGemini(ctx context.Context, user *entity.User, req *dto.GenerateImageRequest) (*dto.GenerateImageResponse, error) {
	contents := s.buildContents(req)

	result, err := s.gemini.GenerateImage(ctx, contents)
	if err != nil {
		switch {
		case errors.Is(err, genai.ErrSafetyBlocked):
			return nil, ErrSafetyBlocked
		case errors.Is(err, genai.ErrEmptyResponse):
			return nil, ErrEmptyModelResponse
		}
		return nil, fmt.Errorf("gemini generation: %w", err)
	}

	res := &dto.GenerateImageResponse{
		Description: result.Text,
		SessionId:   req.SessionId,
	}

	var imageDataURL string
	if result.ImageData != nil {
		imageDataURL = genai.ToDataURL(result.ImageMime, result.ImageData)
		res.Image = imageDataURL
		res.ImageUrl = s.persistImage(ctx, user.Id, imageDataURL, req.Prompt)
	}

	s.recordTurns(req, imageDataURL, result.Text)
	return res, nil
}

func (s *generationService) generateWithDalle(ctx context.Context, user *entity.User, req *dto.GenerateImageRequest) (*dto.GenerateImageResponse, error) {
	imageData, err := s.rapid.GenerateDalleImage(ctx, req.Prompt)
	if err != nil {
		return nil, fmt.Errorf("dalle generation: %w", err)
	}

	imageDataURL := genai.ToDataURL("image/png", imageData)
	res := &dto.GenerateImageResponse{
		Image:       imageDataURL,
		Description: req.Prompt,
		SessionId:   req.SessionId,
		ImageUrl:    s.persistImage(ctx, user.Id, imageDataURL, req.Prompt),
	}

	s.recordTurns(req, imageDataURL, req.Prompt)
	return res, nil
}

func (s *generationService) generateWithRunway(ctx context.Context, req *dto.GenerateImageRequest) (*dto.GenerateImageResponse, error) {
	videoResult, err := s.rapid.GenerateRunwayVideo(ctx, req.Prompt)
	if err != nil {
		return nil, fmt.Errorf("runway generation: %w", err)
	}

	s.publishCompleted(ctx, &dto.PublishGenerationCompletedMessage{
		Operation: string(entity.OperationTextToImage),
		Engine:    string(entity.EngineGen3),
		Prompt:    req.Prompt,
	})

	return &dto.GenerateImageResponse{
		VideoResult: videoResult,
		Description: req.Prompt,
		SessionId:   req.SessionId,
	}, nil
}

func (s *generationService) removeBackground(ctx context.Context, user *entity.User, req *dto.GenerateImageRequest) (*dto.GenerateImageResponse, error) {
	// Provider wants bare base64, strip any data-URL prefix.
	imageBase64 := req.Image
	if idx := strings.Index(imageBase64, ","); idx >= 0 && strings.HasPrefix(imageBase64, "data:") {
		imageBase64 = imageBase64[idx+1:]
	}

	resultImage, err := s.rapid.RemoveBackground(ctx, imageBase64)
	if err != nil {
		return nil, fmt.Errorf("background removal: %w", err)
	}

	s.publishCompleted(ctx, &dto.PublishGenerationCompletedMessage{
		UserId:    user.Id,
		Operation: string(entity.OperationBackgroundRemoval),
	})

	return &dto.GenerateImageResponse{
		Image:     resultImage,
		SessionId: req.SessionId,
	}, nil
}

// persistImage uploads the generated image and writes the durable gallery
// record. Both steps are best-effort: the user already holds the result, so
// a storage failure must not turn a successful generation into an error.
func (s *generationService) persistImage(ctx context.Context, userId uuid.UUID, imageDataURL, prompt string) string {
	fileName := fmt.Sprintf("gemini-image-%d.png", time.Now().UnixMilli())
	hostedURL, err := s.uploader.Upload(ctx, imageDataURL, fileName)
	if err != nil {
		fmt.Printf("[WARN] Failed to upload generated image: %v\n", err)
		return ""
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	image := &entity.GeneratedImage{
		Id:        uuid.New(),
		UserId:    userId,
		ImageUrl:  hostedURL,
		Prompt:    prompt,
		CreatedAt: time.Now(),
	}
	if err := uow.GenerationRepository().Create(ctx, image); err != nil {
		fmt.Printf("[WARN] Failed to save gallery record: %v\n", err)
		return hostedURL
	}

	s.publishCompleted(ctx, &dto.PublishGenerationCompletedMessage{
		UserId:  userId,
		ImageId: &image.Id,
		Prompt:  prompt,
	})
	return hostedURL
}

// buildContents converts the cached session history plus the new request
// into the wire shape the multimodal engine expects. Only user-role images
// are forwarded; model images would blow up the payload.
func (s *generationService) buildContents(req *dto.GenerateImageRequest) []*genai.Content {
	var contents []*genai.Content

	if req.SessionId != "" {
		history, _ := s.sessions.Get(req.SessionId)
		for _, turn := range history {
			content := &genai.Content{Role: turn.Role}
			for _, part := range turn.Parts {
				if part.Text != "" {
					content.Parts = append(content.Parts, genai.TextPart(part.Text))
				}
				if part.Image != "" && turn.Role == entity.ConversationRoleUser {
					if mimeType, data, err := genai.ParseDataURL(part.Image); err == nil {
						content.Parts = append(content.Parts, genai.ImagePart(mimeType, data))
					}
				}
			}
			if len(content.Parts) > 0 {
				contents = append(contents, content)
			}
		}
	}

	current := &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{genai.TextPart(req.Prompt)},
	}
	if req.Image != "" {
		if mimeType, data, err := genai.ParseDataURL(req.Image); err == nil {
			current.Parts = append(current.Parts, genai.ImagePart(mimeType, data))
		}
	}
	return append(contents, current)
}

func (s *generationService) recordTurns(req *dto.GenerateImageRequest, imageDataURL, description string) {
	if req.SessionId == "" {
		return
	}

	userParts := []entity.ConversationPart{{Text: req.Prompt}}
	if req.Image != "" {
		userParts = append(userParts, entity.ConversationPart{Image: req.Image})
	}

	var modelParts []entity.ConversationPart
	if description != "" {
		modelParts = append(modelParts, entity.ConversationPart{Text: description})
	}
	if imageDataURL != "" {
		modelParts = append(modelParts, entity.ConversationPart{Image: imageDataURL})
	}

	s.sessions.Append(req.SessionId,
		entity.ConversationTurn{Role: entity.ConversationRoleUser, Parts: userParts},
		entity.ConversationTurn{Role: entity.ConversationRoleModel, Parts: modelParts},
	)
}

func (s *generationService) publishCompleted(ctx context.Context, msg *dto.PublishGenerationCompletedMessage) {
	if s.publisherService == nil {
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		fmt.Printf("[WARN] Failed to publish generation completed message: %v\n", err)
	}
}
