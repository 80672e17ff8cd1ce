package schema

import "fmt"

type PlayByPlayV3 struct {
	Meta *Meta           `json:"meta"`
	Game *PlayByPlayGame `json:"game"`
}

type PlayByPlayGame struct {
	GameID         string   `json:"gameId"`
	VideoAvailable int      `json:"videoAvailable"`
	Actions        []Action `json:"actions"`
}

// Action is one play-by-play event row. Shot fields are zero for non-shots.
type Action struct {
	ActionNumber   int    `json:"actionNumber"`
	Clock          string `json:"clock"`
	Period         int    `json:"period"`
	TeamID         int64  `json:"teamId"`
	TeamTricode    string `json:"teamTricode"`
	PersonID       int64  `json:"personId"`
	PlayerName     string `json:"playerName"`
	PlayerNameI    string `json:"playerNameI"`
	XLegacy        int    `json:"xLegacy"`
	YLegacy        int    `json:"yLegacy"`
	ShotDistance   int    `json:"shotDistance"`
	ShotResult     string `json:"shotResult"`
	IsFieldGoal    int    `json:"isFieldGoal"`
	ScoreHome      string `json:"scoreHome"`
	ScoreAway      string `json:"scoreAway"`
	PointsTotal    int    `json:"pointsTotal"`
	Location       string `json:"location"`
	Description    string `json:"description"`
	ActionType     string `json:"actionType"`
	SubType        string `json:"subType"`
	VideoAvailable int    `json:"videoAvailable"`
	ActionID       int64  `json:"actionId"`
}

func (p *PlayByPlayV3) Validate() error {
	if err := p.Meta.validate(); err != nil {
		return err
	}
	if p.Game == nil {
		return required("game")
	}
	if p.Game.GameID == "" {
		return required("game.gameId")
	}
	for i, a := range p.Game.Actions {
		if a.Period < 1 {
			return fmt.Errorf("game.actions[%d].period %d out of range", i, a.Period)
		}
	}
	return nil
}

// ParsePlayByPlay validates a playbyplayv3 payload.
func ParsePlayByPlay(p Payload) (*PlayByPlayV3, error) {
	return parse[PlayByPlayV3]("playbyplayv3", p)
}
