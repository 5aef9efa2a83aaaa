/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

const (
	keyGamesPlayed = "games_played"
	keyGamesWon    = "games_won"
	keyGamesLost   = "games_lost"
	keyGamesDrawn  = "games_drawn"
)

type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeLose
	OutcomeDraw
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLose:
		return "lose"
	case OutcomeDraw:
		return "draw"
	}
	return ""
}

type Tally struct {
	Played int `json:"played"`
	Won    int `json:"won"`
	Lost   int `json:"lost"`
	Drawn  int `json:"drawn"`
}

type StatsRecorder interface {
	Record(Outcome) error
}

// Profile holds everything that outlives a single session: the display
// name and the lifetime win/loss counters.
type Profile struct {
	store *Store
}

func NewProfile(store *Store) *Profile {
	return &Profile{store: store}
}

func (p *Profile) DisplayName() string {
	return p.store.String(keyUsername)
}

func (p *Profile) SetDisplayName(name string) error {
	if err := validateDisplayName(name); err != nil {
		return err
	}
	return p.store.Set(map[string]any{keyUsername: name})
}

func (p *Profile) Tally() Tally {
	return Tally{
		Played: p.store.Int(keyGamesPlayed),
		Won:    p.store.Int(keyGamesWon),
		Lost:   p.store.Int(keyGamesLost),
		Drawn:  p.store.Int(keyGamesDrawn),
	}
}

// Record counts one finished game.
func (p *Profile) Record(o Outcome) error {
	t := p.Tally()

	values := map[string]any{keyGamesPlayed: t.Played + 1}
	switch o {
	case OutcomeWin:
		values[keyGamesWon] = t.Won + 1
	case OutcomeLose:
		values[keyGamesLost] = t.Lost + 1
	case OutcomeDraw:
		values[keyGamesDrawn] = t.Drawn + 1
	default:
		return nil
	}

	return p.store.Set(values)
}
