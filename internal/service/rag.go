package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/ragway/internal/ragtext"
	"github.com/xxxsen/ragway/internal/settings"
)

const searchTopK = 5

// hitRenderer turns one search hit payload into a human readable summary
// line for the context list.
type hitRenderer func(payload map[string]interface{}) string

// buildChatContext runs the retrieval half of a chat request and degrades
// to a template-only prompt at every failure point. Nothing here aborts
// the chat; only the generation call downstream is a hard dependency.
func buildChatContext(ctx context.Context, snap *settings.Snapshot, collection, prompt string, render hitRenderer) string {
	logger := logutil.GetLogger(ctx).With(zap.String("collection", collection))

	exists, err := snap.Vec.Exists(ctx, collection)
	if err != nil {
		logger.Warn("collection probe failed", zap.Error(err))
		return ragtext.Substitute(snap.Templates.SearchFailed, prompt, "")
	}
	if !exists {
		logger.Info("collection missing, using no-index context")
		return ragtext.Substitute(snap.Templates.NoIndex, prompt, "")
	}

	queryEmb, err := snap.Embedder.Embed(ctx, prompt, "RETRIEVAL_QUERY")
	if err != nil {
		logger.Warn("query embedding failed", zap.Error(err))
		return ragtext.Substitute(snap.Templates.SearchFailed, prompt, "")
	}

	hits, err := snap.Vec.Search(ctx, collection, queryEmb, searchTopK)
	if err != nil {
		logger.Warn("vector search failed", zap.Error(err))
		return ragtext.Substitute(snap.Templates.SearchFailed, prompt, "")
	}
	if len(hits) == 0 {
		logger.Info("no search results for chat prompt")
		return ragtext.Substitute(snap.Templates.NoResults, prompt, "")
	}

	lines := make([]string, 0, len(hits))
	for _, hit := range hits {
		lines = append(lines, render(hit.Payload))
	}
	return ragtext.Substitute(snap.Templates.Context, prompt, strings.Join(lines, "\n"))
}

func payloadString(payload map[string]interface{}, key, fallback string) string {
	if payload == nil {
		return fallback
	}
	if value, ok := payload[key].(string); ok && value != "" {
		return value
	}
	return fallback
}

func renderContentHit(payload map[string]interface{}) string {
	title := payloadString(payload, "title", "No title")
	url := payloadString(payload, "url", "No url")
	return fmt.Sprintf("- %s: %s", title, url)
}

func renderProductHit(payload map[string]interface{}) string {
	title := payloadString(payload, "title", "No Title")
	url := payloadString(payload, "url", "No URL")
	return fmt.Sprintf("- %s (%s)", title, url)
}
