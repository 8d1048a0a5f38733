package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/beach-cup/models"
)

var ErrArchiveUnavailable = errors.New("results archive is not configured")

// TournamentArchive is the JSON document written for each recorded tournament.
type TournamentArchive struct {
	Result *models.TournamentResult         `json:"result"`
	Points []*models.TournamentPlayerPoints `json:"player_points"`
}

// ResultArchive writes recorded tournaments to object storage.
type ResultArchive struct {
	uploader FileUploader
}

func NewResultArchive(uploader FileUploader) *ResultArchive {
	return &ResultArchive{uploader: uploader}
}

func ArchiveKey(tournamentID int) string {
	return fmt.Sprintf("tournaments/%d.json", tournamentID)
}

func (a *ResultArchive) Archive(ctx context.Context, result *models.TournamentResult, points []*models.TournamentPlayerPoints) (*UploadResult, error) {
	if a == nil || a.uploader == nil {
		return nil, ErrArchiveUnavailable
	}
	if result == nil {
		return nil, errors.New("archive: tournament result is nil")
	}

	body, err := json.Marshal(TournamentArchive{Result: result, Points: points})
	if err != nil {
		return nil, fmt.Errorf("archive: failed to encode tournament %d: %w", result.ID, err)
	}

	return a.uploader.Upload(ctx, ArchiveKey(result.ID), "application/json", bytes.NewReader(body))
}
