package gateway

import (
	gatewaypkg "github.com/foxseedlab/rvrbot/internal/gateway"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (gatewaypkg.Dialer, error) {
		return NewDialer(), nil
	})
}
