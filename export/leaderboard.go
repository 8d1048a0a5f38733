package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Dosada05/beach-cup/models"
)

const (
	LeaderboardSheet    = "Leaderboard"
	XLSXContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	LeaderboardFileName = "season-leaderboard.xlsx"
)

var leaderboardHeader = []interface{}{
	"Rank", "Player", "Points", "Tournaments", "1st", "2nd", "3rd", "4th",
}

// WriteLeaderboard writes rows, already in leaderboard order, as a single-sheet workbook.
func WriteLeaderboard(w io.Writer, rows []*models.LeaderboardRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), LeaderboardSheet); err != nil {
		return fmt.Errorf("failed to name leaderboard sheet: %w", err)
	}

	if err := f.SetSheetRow(LeaderboardSheet, "A1", &leaderboardHeader); err != nil {
		return fmt.Errorf("failed to write leaderboard header: %w", err)
	}

	for i, r := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		cells := []interface{}{
			i + 1, r.PlayerName, r.TotalPlayerPoints, r.TournamentsPlayed,
			r.FirstPlaces, r.SecondPlaces, r.ThirdPlaces, r.FourthPlaces,
		}
		if err := f.SetSheetRow(LeaderboardSheet, axis, &cells); err != nil {
			return fmt.Errorf("failed to write leaderboard row for %q: %w", r.PlayerName, err)
		}
	}

	if err := f.SetColWidth(LeaderboardSheet, "B", "B", 24); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write leaderboard workbook: %w", err)
	}
	return nil
}
