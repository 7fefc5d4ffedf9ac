package core

// RuntimeConfig is passed to games on Reset.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second
	Seed     int64 // RNG seed; 0 means the platform picks one
}

// DefaultConfig returns an 80x24 screen at 30 ticks per second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
	}
}

// GameState is the status a game reports to the platform.
type GameState struct {
	Score    int
	GameOver bool
	Paused   bool

	// Won is set when a campaign level reached its target.
	Won bool
	// Level is the id of the level being played, if any.
	Level string
	// Moves is the number of accepted swaps this run.
	Moves int
	// BestChain is the longest cascade of the run.
	BestChain int
}

// StepResult is returned by Game.Step after each tick.
type StepResult struct {
	State GameState
	// Cues are the names of audio/visual cues raised during the tick.
	Cues []string
}
