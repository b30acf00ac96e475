package game

// Terminal is the game's absorbing outcome state. Exactly one of Success
// and Failure is ever reached; once set, no action mutates state further.
type Terminal string

const (
	TerminalRunning Terminal = "running"
	TerminalSuccess Terminal = "success"
	TerminalFailure Terminal = "failure"
)

// CommandType names a side-effect command in the host vocabulary.
type CommandType string

const (
	CmdPlaySound   CommandType = "playSound"
	CmdPlayBGM     CommandType = "playBGM"
	CmdStopSound   CommandType = "stopSound"
	CmdSpawnEffect CommandType = "spawnEffect"
	CmdMove        CommandType = "move"
)

// Command is one fire-and-forget instruction to the host renderer/audio.
// Commands are returned from a tick and never awaited; visibility, position
// and frame changes are already reflected in object snapshots and carry no
// command.
type Command struct {
	Type     CommandType   `json:"type"`
	SoundID  SoundID       `json:"soundId,omitempty"`
	Volume   float64       `json:"volume,omitempty"`
	TargetID ObjectID      `json:"targetId,omitempty"`
	Effect   EffectPattern `json:"effect,omitempty"`
	Pattern  MovePattern   `json:"pattern,omitempty"`
	Duration float64       `json:"duration,omitempty"`
}

// StateSnapshot is the per-tick copy of the global game state handed to the
// host. It shares no memory with the engine's live state.
type StateSnapshot struct {
	Score          int                   `json:"score"`
	Lives          int                   `json:"lives"`
	ElapsedSeconds float64               `json:"elapsedSeconds"`
	TimeLimit      *float64              `json:"timeLimit,omitempty"`
	Flags          map[FlagID]bool       `json:"flags"`
	Counters       map[CounterID]float64 `json:"counters"`
	Paused         bool                  `json:"paused"`
	Terminal       Terminal              `json:"terminal"`
}

// ObjectSnapshot is the per-tick copy of one object's runtime state.
type ObjectSnapshot struct {
	ID             ObjectID `json:"id"`
	Visible        bool     `json:"visible"`
	X              float64  `json:"x"`
	Y              float64  `json:"y"`
	ScaleX         float64  `json:"scaleX"`
	ScaleY         float64  `json:"scaleY"`
	Rotation       float64  `json:"rotation"`
	Opacity        float64  `json:"opacity"`
	AnimationIndex int      `json:"animationIndex"`
	FrameIndex     int      `json:"frameIndex"`
	AnimElapsed    float64  `json:"animElapsed"`
	LoopCount      int      `json:"loopCount"`
	Playing        bool     `json:"playing"`
}
