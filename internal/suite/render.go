package suite

import (
	"fmt"

	"watchcheck/internal/fixture"
	"watchcheck/internal/watchcheck"
	"watchcheck/internal/watchhost"
)

// Render replays a script through a recording host configured by cfg and
// returns the snapshot a conforming watch session would have produced.
func Render(sf *fixture.ScriptFile, cfg fixture.VerifyConfig, store *fixture.Store) (*fixture.Snapshot, error) {
	built, err := sf.Build(cfg.Cwd)
	if err != nil {
		return nil, err
	}
	codes, err := cfg.Codes()
	if err != nil {
		return nil, err
	}
	h := watchhost.New(
		watchhost.WithNewLine(cfg.Sequence()),
		watchhost.WithCurrentDirectory(built.Program.CurrentDirectory()),
		watchhost.WithScreenStartingCodes(codes),
		watchhost.WithPreserveOutput(cfg.SuppressClears),
	)
	watchcheck.Replay(h, built.Script)
	if built.Kind == fixture.KindIncrementalExit {
		h.Exit(built.ExitCode)
	}
	snap, err := store.Record(h.Snapshot(), h.NewLine())
	if err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	return snap, nil
}
