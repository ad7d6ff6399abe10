package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/dmrimawi/patroid/apperr"
	"github.com/dmrimawi/patroid/store"
)

var (
	serveStoreDSN string
	serveAddr     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored analysis reports over HTTP",
	Long: `Serve runs a small read-only HTTP server over the report store: the
last report for a project, and a liveness probe for deployment health
checks.`,
	Example: `  patroid serve --store-dsn postgres://localhost/patroid
  patroid serve --store-dsn postgres://localhost/patroid --addr :9090`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn := resolveString(serveStoreDSN, cfg.Database.URL)
		if dsn == "" {
			var err error
			dsn, err = cfg.DSN()
			if err != nil {
				return apperr.Wrap(apperr.InternalError, "resolving report store DSN", err)
			}
		}

		ctx := context.Background()
		s, err := store.Open(ctx, dsn)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.ApplyDDL(ctx); err != nil {
			return err
		}

		addr := resolveString(serveAddr, cfg.Serve.Addr, ":8088")

		gin.SetMode(gin.ReleaseMode)
		router := gin.New()
		router.Use(gin.Recovery())
		registerReportRoutes(router, s)

		return router.Run(addr)
	},
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveStoreDSN, "store-dsn", "", "report store DSN")
	f.StringVar(&serveAddr, "addr", "", "address to listen on (default :8088)")
}

func registerReportRoutes(router *gin.Engine, s *store.Postgres) {
	router.GET("/healthz", func(c *gin.Context) {
		if err := s.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/reports/:project", func(c *gin.Context) {
		project := c.Param("project")

		latest, found, err := s.LatestRunForProject(c.Request.Context(), project)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "no report found for project " + project})
			return
		}

		occurrences, err := s.OccurrencesForRun(c.Request.Context(), latest.RunID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"run_id":      latest.RunID,
			"project":     latest.Project,
			"started_at":  latest.StartedAt,
			"finished_at": latest.FinishedAt,
			"occurrences": occurrences,
		})
	})
}
