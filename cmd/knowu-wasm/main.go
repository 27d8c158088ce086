//go:build js && wasm

// Command knowu-wasm is the browser build of the agent. It reads the endpoint
// from <meta name="knowu-endpoint" content="..."> and posts one fingerprint
// when the page has loaded.
package main

import (
	"context"
	"os"
	"syscall/js"

	"github.com/rs/zerolog"

	"github.com/st-keller/knowu"
	"github.com/st-keller/knowu/jsplatform"
	"github.com/st-keller/knowu/logger"
)

const endpointMeta = `meta[name="knowu-endpoint"]`

func main() {
	log := logger.Wrap(zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger())

	endpoint := metaEndpoint()
	if endpoint == "" {
		log.Warn().Msg("no knowu-endpoint meta tag, fingerprint not sent")
		return
	}

	client, err := knowu.New(knowu.Config{
		EndpointURL: endpoint,
		SendOnLoad:  true,
	}, jsplatform.New(), knowu.WithLogger(log))
	if err != nil {
		log.Error().Err(err).Str("endpoint", endpoint).Msg("knowu client init failed")
		return
	}

	// The module must stay alive until the load-triggered send completes.
	_ = client.Wait(context.Background())
}

func metaEndpoint() string {
	doc := js.Global().Get("document")
	if doc.IsUndefined() || doc.IsNull() {
		return ""
	}
	meta := doc.Call("querySelector", endpointMeta)
	if meta.IsNull() || meta.IsUndefined() {
		return ""
	}
	content := meta.Call("getAttribute", "content")
	if content.Type() != js.TypeString {
		return ""
	}
	return content.String()
}
