package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/smallbiznis/facturo/internal/client"
	"github.com/smallbiznis/facturo/internal/config"
	"github.com/smallbiznis/facturo/internal/document"
	"github.com/smallbiznis/facturo/internal/invoice"
	"github.com/smallbiznis/facturo/internal/logger"
	"github.com/smallbiznis/facturo/internal/migration"
	"github.com/smallbiznis/facturo/internal/objectstore"
	"github.com/smallbiznis/facturo/internal/observability"
	pdfprovider "github.com/smallbiznis/facturo/internal/providers/pdf"
	"github.com/smallbiznis/facturo/internal/sequence"
	"github.com/smallbiznis/facturo/internal/server"
	"github.com/smallbiznis/facturo/internal/tenant"
	"github.com/smallbiznis/facturo/pkg/db"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// Functional domains
		tenant.Module,
		client.Module,
		sequence.Module,
		invoice.Module,
		objectstore.Module,
		pdfprovider.Module,
		document.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
