package document

import (
	"github.com/smallbiznis/facturo/internal/document/service"
	"go.uber.org/fx"
)

var Module = fx.Module("document.service",
	fx.Provide(service.New),
)
