package notify

import (
	"github.com/samber/do/v2"

	"github.com/foxseedlab/rvrbot/internal/config"
	notifypkg "github.com/foxseedlab/rvrbot/internal/notify"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (notifypkg.Sender, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewHTTPSender(c.NowPlayingWebhookURL), nil
	})
}
