package cmd

import (
	"context"
	"os"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"github.com/xjoerootx/smart-test/pkg/config"
	"github.com/xjoerootx/smart-test/pkg/hvdb"
	"github.com/xjoerootx/smart-test/pkg/hvdb/stor"
	"github.com/xjoerootx/smart-test/pkg/ingest"
	"github.com/xjoerootx/smart-test/pkg/notify"
	"github.com/xjoerootx/smart-test/pkg/objstore"
	"github.com/xjoerootx/smart-test/pkg/remote"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "harvestd",
	Short: "Run the harvestd server: periodic SFTP ingestion plus the control API",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		c := config.MustLoadFromDotenv()

		db := hvdb.MustConnectToDB()
		if err := hvdb.RunMigrations(db); err != nil {
			log.Fatalf("Failed running database migrations: %s", err)
		}

		claimLease := c.GetSecondsKeyWithDefault("CLAIM_LEASE_SECONDS", stor.DefaultClaimLease)
		stors := stor.NewGormStors(db, claimLease)

		store, err := objstore.NewS3Store(context.Background(), objstore.S3Config{
			Endpoint:  c.MustGetKey("S3_ENDPOINT"),
			AccessKey: c.MustGetKey("S3_ACCESS_KEY"),
			SecretKey: c.MustGetKey("S3_SECRET_KEY"),
			Region:    c.GetKeyWithDefault("S3_REGION", "us-east-1"),
		})
		if err != nil {
			log.Fatalf("Failed creating object storage client: %s", err)
		}

		notifier := notify.NewAMQPNotifier(
			c.MustGetKey("AMQP_URL"),
			c.GetKeyWithDefault("NOTIFY_QUEUE", notify.DefaultQueue))

		transferrer := ingest.NewTransferrer(store,
			c.MustGetKey("S3_BUCKET"),
			c.GetKeyWithDefault("STAGING_DIR", os.TempDir()))

		discoverer := ingest.NewDiscoverer(
			remote.NewSFTPDialer(),
			stors.FileStor,
			transferrer,
			notifier,
			c.GetKeyWithDefault("UPLOAD_PATH", ingest.DefaultUploadPath))

		scheduler := ingest.NewScheduler(
			ingest.WithServerStor(stors.ServerStor),
			ingest.WithDiscoverer(discoverer),
			ingest.WithScanInterval(c.GetSecondsKeyWithDefault("SCAN_INTERVAL_SECONDS", ingest.DefaultScanInterval)),
			ingest.WithWorkerCount(c.GetIntKeyWithDefault("WORKER_COUNT", ingest.DefaultWorkerCount)))

		go scheduler.Run(context.Background())

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.Use(middleware.Recover())

		setupRoutes(e, RouteOpts{
			serverStor: stors.ServerStor,
			fileStor:   stors.FileStor,
			scheduler:  scheduler,
		})

		if err := e.Start(":" + c.GetKeyWithDefault("HARVESTD_PORT", "8000")); err != nil {
			log.Fatalf("Unable to start server: %v", err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
