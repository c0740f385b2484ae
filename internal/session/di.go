package session

import (
	"github.com/samber/do/v2"

	"github.com/foxseedlab/rvrbot/internal/archive"
	"github.com/foxseedlab/rvrbot/internal/collab"
	"github.com/foxseedlab/rvrbot/internal/command"
	"github.com/foxseedlab/rvrbot/internal/config"
	"github.com/foxseedlab/rvrbot/internal/gateway"
	"github.com/foxseedlab/rvrbot/internal/notify"
	"github.com/foxseedlab/rvrbot/internal/room"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*room.State, error) {
		return room.NewState(), nil
	})

	do.Provide(injector, func(i do.Injector) (*Supervisor, error) {
		cfg := do.MustInvoke[*config.Config](i)
		dialer := do.MustInvoke[gateway.Dialer](i)
		store := do.MustInvoke[*room.State](i)
		arch := do.MustInvoke[archive.Archive](i)
		notifier := do.MustInvoke[notify.Sender](i)

		sup := NewSupervisor(cfg, dialer, store, arch, notifier)
		sup.Attach(collab.NewArbiter(sup), command.NewDispatcher(sup))
		return sup, nil
	})
}
