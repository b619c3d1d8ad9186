// Package consolidate merges duplicate and synonymous ingredient lines
// across recipes via a one-shot text-generation call. Every failure mode
// degrades to an empty consolidated list; generation of the shopping list
// itself never fails on consolidation.
package consolidate

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"shoplist-generator/internal/core/shoplist"
	"shoplist-generator/internal/infrastructure/config"
	"shoplist-generator/internal/pkg/common"
)

const promptHeader = `You are consolidating a shopping list. Merge duplicate or synonymous ingredients into a single entry each and sum compatible amounts. Every merged entry must keep the union of the "recipes" numbers of the lines it was merged from; never invent numbers. Reply with a JSON array only, no explanation and no markdown. Each element has exactly these fields: {"amount": "...", "ingredient": "...", "recipes": [1]}.
Ingredient lines:
`

// Service is the consolidation adapter.
type Service struct {
	config    *config.Config
	generator TextGenerator
	cache     *Cache
}

// NewService creates a consolidation service. cache may be a disabled
// no-op cache.
func NewService(cfg *config.Config, generator TextGenerator, cache *Cache) *Service {
	return &Service{
		config:    cfg,
		generator: generator,
		cache:     cache,
	}
}

// Consolidate merges the given lines. On any failure (call error,
// timeout, unparseable reply) it returns an empty list and logs; the
// caller decides whether an empty consolidated list is acceptable.
func (s *Service) Consolidate(ctx context.Context, lines []shoplist.IngredientLine) []shoplist.ConsolidatedLine {
	if len(lines) == 0 {
		return []shoplist.ConsolidatedLine{}
	}

	if !s.config.Gemini.Enabled {
		common.LogDebug("Consolidation disabled, returning empty list",
			zap.Int("line_count", len(lines)),
		)
		return []shoplist.ConsolidatedLine{}
	}

	payload, err := json.Marshal(lines)
	if err != nil {
		common.LogError("Failed to serialize ingredient lines", zap.Error(err))
		return []shoplist.ConsolidatedLine{}
	}

	reply, cached := s.cachedReply(ctx, payload)
	if !cached {
		reply, err = s.generate(ctx, string(payload))
		if err != nil {
			common.LogError("Consolidation call failed, degrading to empty list",
				zap.Error(err),
				zap.Int("line_count", len(lines)),
			)
			return []shoplist.ConsolidatedLine{}
		}
		if cacheErr := s.cache.Set(ctx, payload, reply); cacheErr != nil {
			common.LogDebug("Failed to cache consolidation reply", zap.Error(cacheErr))
		}
	}

	parsed, ok := parseReply(reply)
	if !ok {
		common.LogError("Consolidation reply not parseable, degrading to empty list",
			zap.Int("line_count", len(lines)),
			zap.Int("reply_length", len(reply)),
		)
		return []shoplist.ConsolidatedLine{}
	}

	return sanitize(parsed, lines)
}

func (s *Service) cachedReply(ctx context.Context, payload []byte) (string, bool) {
	if val, err := s.cache.Get(ctx, payload); err == nil && val != "" {
		common.LogCacheHit("consolidation")
		return val, true
	}
	common.LogCacheMiss("consolidation")
	return "", false
}

func (s *Service) generate(ctx context.Context, serializedLines string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Gemini.Timeout)
	defer cancel()

	start := time.Now()
	reply, err := s.generator.Generate(ctx, promptHeader+serializedLines)
	common.LogLLMCall(time.Since(start), err, "")
	return reply, err
}

// parseReply extracts the first-'['-to-last-']' substring and parses it.
func parseReply(reply string) ([]shoplist.ConsolidatedLine, bool) {
	arr := common.ExtractJSONArray(reply)
	if arr == "" {
		return nil, false
	}

	var parsed []shoplist.ConsolidatedLine
	if err := common.ParseJSON(arr, &parsed); err != nil {
		return nil, false
	}
	return parsed, true
}

// sanitize ensures every recipes entry references an index present in
// the input. Out-of-range indices come from model hallucination; they are
// dropped and logged, never propagated. Surviving indices are
// deduplicated and sorted.
func sanitize(parsed []shoplist.ConsolidatedLine, input []shoplist.IngredientLine) []shoplist.ConsolidatedLine {
	valid := make(map[int]bool)
	for _, line := range input {
		for _, idx := range line.Recipes {
			valid[idx] = true
		}
	}

	out := make([]shoplist.ConsolidatedLine, 0, len(parsed))
	for _, line := range parsed {
		line.Ingredient = strings.TrimSpace(line.Ingredient)
		if line.Ingredient == "" {
			continue
		}

		seen := make(map[int]bool)
		indices := make([]int, 0, len(line.Recipes))
		for _, idx := range line.Recipes {
			if !valid[idx] {
				common.LogWarn("Dropping invented recipe index from consolidation reply",
					zap.Int("index", idx),
					zap.String("ingredient", line.Ingredient),
				)
				continue
			}
			if !seen[idx] {
				seen[idx] = true
				indices = append(indices, idx)
			}
		}
		sort.Ints(indices)
		line.Recipes = indices

		out = append(out, line)
	}
	return out
}
