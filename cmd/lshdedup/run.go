package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lshdedup/lshdedup/internal/callback"
	"github.com/lshdedup/lshdedup/internal/config"
	"github.com/lshdedup/lshdedup/internal/csvio"
	"github.com/lshdedup/lshdedup/internal/kmsclient"
	"github.com/lshdedup/lshdedup/internal/logging"
	"github.com/lshdedup/lshdedup/internal/model"
	"github.com/lshdedup/lshdedup/internal/objectstore"
	"github.com/lshdedup/lshdedup/internal/pipeline"
	"github.com/lshdedup/lshdedup/internal/respenvelope"
)

func runDedup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rtCfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.NewDefault(logging.ParseLevel(rtCfg.Log.Level)).With("invocation_id", uuid.NewString())

	payloadBytes, err := readPayload(payloadPath)
	if err != nil {
		return fmt.Errorf("reading invocation payload: %w", err)
	}

	var dedupCfg model.DedupConfig
	var svcErr *respenvelope.ServiceError
	var outputRef any

	if err := json.Unmarshal(payloadBytes, &dedupCfg); err != nil {
		svcErr = respenvelope.ConfigError("invalid invocation payload: %v", err)
	} else {
		outputRef, svcErr = process(ctx, log, rtCfg, dedupCfg)
	}

	payload := respenvelope.MakePayload(svcErr, dedupCfg, outputRef)
	notifyCallback(ctx, log, rtCfg, payload)

	if err := json.NewEncoder(os.Stdout).Encode(payload); err != nil {
		return fmt.Errorf("encoding response payload: %w", err)
	}
	if svcErr != nil {
		return svcErr
	}
	return nil
}

// process runs the download -> pipeline -> upload sequence and
// returns the output object reference on success.
func process(ctx context.Context, log *slog.Logger, rtCfg *config.Config, cfg model.DedupConfig) (any, *respenvelope.ServiceError) {
	store, svcErr := objectstore.NewS3Store(rtCfg.Region)
	if svcErr != nil {
		return nil, svcErr
	}

	body, svcErr := store.Download(ctx, cfg.Data.Bucket, cfg.Data.Key)
	if svcErr != nil {
		return nil, svcErr
	}

	records, svcErr := csvio.ReadRecords(body)
	if svcErr != nil {
		return nil, svcErr
	}

	results, err := pipeline.Run(ctx, log, records, cfg)
	if err != nil {
		var pipelineErr *respenvelope.ServiceError
		if errors.As(err, &pipelineErr) {
			return nil, pipelineErr
		}
		return nil, respenvelope.InternalError("running pipeline: %v", err)
	}

	out, svcErr := csvio.WriteResults(results)
	if svcErr != nil {
		return nil, svcErr
	}

	outputBucket := objectstore.OutputBucket(cfg.Data.Bucket)
	if svcErr := store.Upload(ctx, outputBucket, cfg.Data.Key, out); svcErr != nil {
		return nil, svcErr
	}

	return model.DataFile{Bucket: outputBucket, Key: cfg.Data.Key}, nil
}

// notifyCallback decrypts the configured API key and POSTs the result
// payload to the downstream endpoint. Failures here are logged but do
// not change the invocation's own exit status: the callback is a
// best-effort notification, not part of the pipeline's success
// contract.
func notifyCallback(ctx context.Context, log *slog.Logger, rtCfg *config.Config, payload respenvelope.Payload) {
	if rtCfg.Endpoint == "" {
		log.Debug("no callback endpoint configured, skipping notification")
		return
	}

	decryptor, svcErr := kmsclient.NewDecryptor(rtCfg.Region, rtCfg.KeyID)
	if svcErr != nil {
		log.Error("building kms decryptor", "error", svcErr)
		return
	}
	apiKey, svcErr := decryptor.DecryptAPIKey(ctx, rtCfg.APIKey, rtCfg.FunctionName)
	if svcErr != nil {
		log.Error("decrypting callback api key", "error", svcErr)
		return
	}

	notifier := callback.NewNotifier(rtCfg.Endpoint, "lshdedup-callback")
	if svcErr := notifier.Notify(ctx, apiKey, payload); svcErr != nil {
		log.Error("posting callback", "error", svcErr)
	}
}

func readPayload(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
