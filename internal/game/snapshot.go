// internal/game/snapshot.go
//
// State snapshot exchanged with callers after every turn.

package game

import "fmt"

type Snapshot struct {
	Meta          SnapshotMeta    `json:"meta"`
	Status        SnapshotStatus  `json:"status"`
	Scoring       SnapshotScoring `json:"scoring"`
	Data          SnapshotData    `json:"data"`
	LastReasoning string          `json:"last_reasoning"`
}

type SnapshotMeta struct {
	LevelID         string   `json:"level_id"`
	AgentID         string   `json:"agent_id"`
	AvailableLevels []string `json:"available_levels"`
	Dimensions      string   `json:"dimensions"`
	Turn            int      `json:"turn"`
	MaxMoves        int      `json:"max_moves"`
	IdealMoves      int      `json:"ideal_moves"`
}

type SnapshotStatus struct {
	GameOver          bool    `json:"game_over"`
	Result            Result  `json:"result"`
	Phase             Phase   `json:"phase"`
	MiceRescued       int     `json:"mice_rescued"`
	TotalMice         int     `json:"total_mice"`
	CompletionPercent float64 `json:"completion_percent"`
}

type SnapshotScoring struct {
	RawPoints      int `json:"raw_points"`
	BenchmarkScore int `json:"benchmark_score"`
}

type SnapshotData struct {
	Inventory     map[string]int         `json:"inventory"`
	Mice          map[string]MouseReport `json:"mice"`
	BoardEncoding map[string]string      `json:"board_encoding"`
	History       []string               `json:"history"`
}

// MouseReport is the public view of a mouse.
type MouseReport struct {
	Pos    string      `json:"pos"`
	OnBase *int        `json:"on_base"`
	Status MouseStatus `json:"status"`
}

// Snapshot builds the public view of the match. It never mutates the match.
func (m *Match) Snapshot() Snapshot {
	inv := make(map[string]int, len(m.Inventory))
	for k, n := range m.Inventory {
		inv[k.String()] = n
	}
	mice := make(map[string]MouseReport, len(m.Mice))
	for _, mo := range m.Mice {
		r := MouseReport{Pos: mo.Location(), Status: mo.Status}
		if mo.Status == InPlay {
			slot := mo.OnBase
			r.OnBase = &slot
		}
		mice[mo.ID] = r
	}
	return Snapshot{
		Meta: SnapshotMeta{
			LevelID:         m.LevelID,
			AgentID:         m.AgentID,
			AvailableLevels: append([]string{}, m.AvailableLevels...),
			Dimensions:      fmt.Sprintf("%dx%d", m.Board.Width, m.Board.Height),
			Turn:            m.Turn,
			MaxMoves:        m.MaxMoves,
			IdealMoves:      m.IdealMoves,
		},
		Status: SnapshotStatus{
			GameOver:          m.GameOver(),
			Result:            m.Result,
			Phase:             m.Phase(),
			MiceRescued:       m.Rescued(),
			TotalMice:         len(m.Mice),
			CompletionPercent: m.CompletionPercent(),
		},
		Scoring: SnapshotScoring{
			RawPoints:      m.RawPoints,
			BenchmarkScore: m.BenchmarkScore(),
		},
		Data: SnapshotData{
			Inventory:     inv,
			Mice:          mice,
			BoardEncoding: m.Board.Encode(m.Mice),
			History:       append([]string{}, m.History...),
		},
		LastReasoning: m.LastReasoning,
	}
}
