package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/EmundoT/git-assess/internal/core"
)

// Publish targets accepted by --publish.
const (
	publishNone      = "none"
	publishDashverse = "dashverse"
	publishS3        = "s3"
	publishPostgres  = "postgres"
)

// publishFlags select and configure the collector a report is sent to.
type publishFlags struct {
	target            string
	dashverseToken    string
	dashverseEndpoint string
	databaseURL       string
}

func (f *publishFlags) bind(cmd *cobra.Command, defaultTarget string) {
	fs := cmd.Flags()
	fs.StringVar(&f.target, "publish", defaultTarget, "Publish the report to: none, dashverse, s3, postgres")
	fs.StringVar(&f.dashverseToken, "dashverse-token", "", "Dashverse API token (default $DASHVERSE_TOKEN)")
	fs.StringVar(&f.dashverseEndpoint, "dashverse-endpoint", core.DefaultDashverseEndpoint, "Dashverse API endpoint")
	fs.StringVar(&f.databaseURL, "database-url", "", "PostgreSQL URL (default $GIT_ASSESS_DATABASE_URL)")
}

func parsePublishTarget(s string) (string, error) {
	switch t := strings.ToLower(strings.TrimSpace(s)); t {
	case publishNone, publishDashverse, publishS3, publishPostgres:
		return t, nil
	}
	return "", fmt.Errorf("unknown publish target %q (want none, dashverse, s3 or postgres)", s)
}

// objectStoreConfigFromEnv reads the GIT_ASSESS_S3_* settings.
func objectStoreConfigFromEnv() core.ObjectStoreConfig {
	return core.ObjectStoreConfig{
		Endpoint:  lookupEnv("GIT_ASSESS_S3_ENDPOINT"),
		AccessKey: lookupEnv("GIT_ASSESS_S3_ACCESS_KEY"),
		SecretKey: lookupEnv("GIT_ASSESS_S3_SECRET_KEY"),
		Bucket:    lookupEnv("GIT_ASSESS_S3_BUCKET"),
		Region:    lookupEnv("GIT_ASSESS_S3_REGION"),
		UseSSL:    lookupEnv("GIT_ASSESS_S3_INSECURE") == "",
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// openPublisher builds the publisher for target. The returned close function
// is never nil. A nil publisher means nothing should be published.
func (f *publishFlags) openPublisher(ctx context.Context, target, project string) (core.Publisher, func() error, error) {
	noop := func() error { return nil }
	switch target {
	case publishDashverse:
		token := firstNonEmpty(f.dashverseToken, lookupEnv("DASHVERSE_TOKEN"))
		return core.NewDashverseClient(f.dashverseEndpoint, token), noop, nil
	case publishS3:
		p, err := core.NewObjectStorePublisher(objectStoreConfigFromEnv(), project)
		if err != nil {
			return nil, noop, err
		}
		return p, noop, nil
	case publishPostgres:
		url := firstNonEmpty(f.databaseURL, lookupEnv("GIT_ASSESS_DATABASE_URL"))
		if url == "" {
			return nil, noop, &core.PublishError{Target: publishPostgres, Err: fmt.Errorf("database URL: %w", core.ErrMissingToken)}
		}
		p, err := core.OpenPostgresPublisher(ctx, url, project)
		if err != nil {
			return nil, noop, err
		}
		return p, p.Close, nil
	default:
		return nil, noop, nil
	}
}

// publish sends the report at path and reports the outcome. Failures never
// change the exit status of the command.
func (f *publishFlags) publish(ctx context.Context, target, project, path string) (published bool, publishErr error) {
	p, closeFn, err := f.openPublisher(ctx, target, project)
	defer func() {
		if cerr := closeFn(); cerr != nil && publishErr == nil {
			publishErr = cerr
		}
	}()
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, nil
	}
	if err := core.PublishReport(ctx, p, path); err != nil {
		return false, err
	}
	return true, nil
}
