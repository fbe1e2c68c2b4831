package mapper

import (
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/model"
)

type GenerationMapper struct{}

func NewGenerationMapper() *GenerationMapper {
	return &GenerationMapper{}
}

func (m *GenerationMapper) ToEntity(g *model.GeneratedImage) *entity.GeneratedImage {
	if g == nil {
		return nil
	}
	return &entity.GeneratedImage{
		Id:        g.Id,
		UserId:    g.UserId,
		ImageUrl:  g.ImageUrl,
		Prompt:    g.Prompt,
		CreatedAt: g.CreatedAt,
	}
}

func (m *GenerationMapper) ToModel(g *entity.GeneratedImage) *model.GeneratedImage {
	if g == nil {
		return nil
	}
	return &model.GeneratedImage{
		Id:        g.Id,
		UserId:    g.UserId,
		ImageUrl:  g.ImageUrl,
		Prompt:    g.Prompt,
		CreatedAt: g.CreatedAt,
	}
}

func (m *GenerationMapper) ToEntities(images []*model.GeneratedImage) []*entity.GeneratedImage {
	entities := make([]*entity.GeneratedImage, len(images))
	for i, g := range images {
		entities[i] = m.ToEntity(g)
	}
	return entities
}

func (m *GenerationMapper) CreditTransactionToModel(t *entity.CreditTransaction) *model.CreditTransaction {
	if t == nil {
		return nil
	}
	return &model.CreditTransaction{
		Id:        t.Id,
		UserId:    t.UserId,
		Type:      string(t.Type),
		Amount:    t.Amount,
		Reference: t.Reference,
		CreatedAt: t.CreatedAt,
	}
}

func (m *GenerationMapper) CreditTransactionToEntity(t *model.CreditTransaction) *entity.CreditTransaction {
	if t == nil {
		return nil
	}
	return &entity.CreditTransaction{
		Id:        t.Id,
		UserId:    t.UserId,
		Type:      entity.CreditTransactionType(t.Type),
		Amount:    t.Amount,
		Reference: t.Reference,
		CreatedAt: t.CreatedAt,
	}
}

func (m *GenerationMapper) CreditTransactionsToEntities(txns []*model.CreditTransaction) []*entity.CreditTransaction {
	entities := make([]*entity.CreditTransaction, len(txns))
	for i, t := range txns {
		entities[i] = m.CreditTransactionToEntity(t)
	}
	return entities
}
