package service

import (
	"context"
	"testing"
	"time"

	"ai-imagestudio-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGalleryOrderedOldestFirst(t *testing.T) {
	uow := newFakeUow()
	userId := uuid.New()
	other := uuid.New()

	base := time.Now().Add(-time.Hour)
	for i, prompt := range []string{"first", "second", "third"} {
		require.NoError(t, uow.images.Create(context.Background(), &entity.GeneratedImage{
			Id:        uuid.New(),
			UserId:    userId,
			ImageUrl:  "https://ik.example.com/" + prompt + ".png",
			Prompt:    prompt,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	// Another user's image must never leak into the gallery.
	require.NoError(t, uow.images.Create(context.Background(), &entity.GeneratedImage{
		Id:        uuid.New(),
		UserId:    other,
		ImageUrl:  "https://ik.example.com/other.png",
		CreatedAt: base,
	}))

	svc := NewGalleryService(&fakeFactory{uow: uow})

	items, err := svc.GetGallery(context.Background(), userId)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "first", items[0].Prompt)
	assert.Equal(t, "third", items[2].Prompt)
}

func TestGalleryConversationProjection(t *testing.T) {
	uow := newFakeUow()
	userId := uuid.New()

	require.NoError(t, uow.images.Create(context.Background(), &entity.GeneratedImage{
		Id:        uuid.New(),
		UserId:    userId,
		ImageUrl:  "https://ik.example.com/bike.png",
		Prompt:    "a red bicycle",
		CreatedAt: time.Now(),
	}))

	svc := NewGalleryService(&fakeFactory{uow: uow})

	turns, err := svc.GetGalleryAsConversation(context.Background(), userId)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, entity.ConversationRoleModel, turns[0].Role)
	require.Len(t, turns[0].Parts, 2)
	assert.Equal(t, "https://ik.example.com/bike.png", turns[0].Parts[0].Image)
	assert.Equal(t, "a red bicycle", turns[0].Parts[1].Text)
}

func TestGalleryEmptyForNewUser(t *testing.T) {
	svc := NewGalleryService(&fakeFactory{uow: newFakeUow()})

	items, err := svc.GetGallery(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, items)
}
