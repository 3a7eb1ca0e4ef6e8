package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Dosada05/wrestling-league/models"
	"github.com/Dosada05/wrestling-league/repositories"
	"github.com/Dosada05/wrestling-league/storage"
)

// ActArchiver keeps an immutable copy of signed acts outside the database.
type ActArchiver interface {
	Archive(ctx context.Context, act *models.MatchAct) (string, error)
	PublicURL(key string) string
}

type actArchiver struct {
	uploader storage.FileUploader
	actRepo  repositories.ActRepository
	logger   *slog.Logger
}

func NewActArchiver(uploader storage.FileUploader, actRepo repositories.ActRepository, logger *slog.Logger) ActArchiver {
	return &actArchiver{uploader: uploader, actRepo: actRepo, logger: logger}
}

// Archive uploads the act and records the object key on it. The object is
// removed again if the key cannot be stored.
func (a *actArchiver) Archive(ctx context.Context, act *models.MatchAct) (string, error) {
	key := storage.ActArchiveKey(act.MatchID, act.ID)

	doc, err := json.MarshalIndent(act, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode act %s for archive: %w", act.ID, err)
	}
	if _, err := a.uploader.Upload(ctx, key, storage.ContentTypeJSON, bytes.NewReader(doc)); err != nil {
		return "", err
	}

	if err := a.actRepo.SetArchiveKey(ctx, act.ID, key); err != nil {
		if delErr := a.uploader.Delete(ctx, key); delErr != nil {
			a.logger.Error("failed to remove orphaned act archive",
				slog.String("key", key), slog.Any("error", delErr))
		}
		return "", fmt.Errorf("failed to record archive key for act %s: %w", act.ID, err)
	}

	act.ArchiveKey = &key
	if u := a.uploader.GetPublicURL(key); u != "" {
		act.ArchiveURL = &u
	}
	return key, nil
}

func (a *actArchiver) PublicURL(key string) string {
	return a.uploader.GetPublicURL(key)
}
