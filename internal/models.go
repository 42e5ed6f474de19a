package internal

import (
	"encoding/json"
	"time"
)

// ChatSession is an ordered conversation extracted from a workspace
// record. Immutable from the engine's perspective; the only filtering
// applied is archived-vs-active inclusion.
type ChatSession struct {
	ID        string     `json:"id"`
	Title     string     `json:"title,omitempty"`
	CreatedAt int64      `json:"created_at,omitempty"` // unix seconds
	UpdatedAt int64      `json:"updated_at,omitempty"`
	Archived  bool       `json:"archived,omitempty"`
	Turns     []ChatTurn `json:"turns"`
}

// ChatTurn is one conversation turn. Every field beyond Role may be
// absent; absent means absent, never zero, so renderers can omit rather
// than print defaults.
type ChatTurn struct {
	Role      string         `json:"role"` // "user", "assistant", "unknown"
	Text      string         `json:"text,omitempty"`
	Timestamp int64          `json:"timestamp,omitempty"` // unix seconds
	Model     string         `json:"model,omitempty"`
	Thinking  *ThinkingBlock `json:"thinking,omitempty"`
	ToolCalls []ToolCall     `json:"tool_calls,omitempty"`
	Tokens    *TokenCount    `json:"tokens,omitempty"`
}

// ThinkingBlock is a reasoning segment attached to an assistant turn
type ThinkingBlock struct {
	Text       string `json:"text"`
	DurationMs int64  `json:"duration_ms,omitempty"`
}

// ToolCall describes one tool invocation within a turn
type ToolCall struct {
	Name   string `json:"name"`
	Params string `json:"params,omitempty"`
	Result string `json:"result,omitempty"`
	Status string `json:"status,omitempty"`
}

// TokenCount is the token-usage counter pair for a turn
type TokenCount struct {
	Input  int64 `json:"input"`
	Output int64 `json:"output"`
}

// HasContent reports whether the turn carries anything renderable
func (t ChatTurn) HasContent() bool {
	return t.Text != "" || t.Thinking != nil || len(t.ToolCalls) > 0
}

// composerEntry is one session's metadata inside the workspace
// database's composer.composerData value.
type composerEntry struct {
	ComposerID    string `json:"composerId"`
	Name          string `json:"name"`
	CreatedAt     int64  `json:"createdAt"` // unix millis
	LastUpdatedAt int64  `json:"lastUpdatedAt"`
	IsArchived    bool   `json:"isArchived"`
}

// parseComposerIndex decodes composer.composerData. Entries missing an
// id or creation time are dropped; archived entries are dropped unless
// requested.
func parseComposerIndex(value string, includeArchived bool) ([]composerEntry, error) {
	var index struct {
		AllComposers []composerEntry `json:"allComposers"`
	}
	if err := json.Unmarshal([]byte(value), &index); err != nil {
		return nil, &ParseError{Source: "composerData", Key: "composer.composerData", Err: err}
	}

	var entries []composerEntry
	for _, e := range index.AllComposers {
		if e.ComposerID == "" || e.CreatedAt == 0 {
			continue
		}
		if e.IsArchived && !includeArchived {
			continue
		}
		if e.LastUpdatedAt == 0 {
			e.LastUpdatedAt = e.CreatedAt
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// conversationHeader is one entry of fullConversationHeadersOnly in a
// global composerData record: the bubble id plus the author type.
type conversationHeader struct {
	BubbleID string `json:"bubbleId"`
	Type     int    `json:"type"` // 1=user, 2=assistant
}

// rawBubble is the subset of a stored bubble the reader interprets
type rawBubble struct {
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"` // RFC 3339
	Thinking  *struct {
		Text string `json:"text"`
	} `json:"thinking"`
	ThinkingDurationMs int64 `json:"thinkingDurationMs"`
	ToolFormerData     *struct {
		Name   string `json:"name"`
		Params string `json:"params"`
		Result string `json:"result"`
		Status string `json:"status"`
	} `json:"toolFormerData"`
	ModelInfo *struct {
		ModelName string `json:"modelName"`
	} `json:"modelInfo"`
	TokenCount *struct {
		InputTokens  int64 `json:"inputTokens"`
		OutputTokens int64 `json:"outputTokens"`
	} `json:"tokenCount"`
}

const (
	maxParamChars  = 500
	maxResultChars = 1000
)

// parseBubbleTurn decodes one stored bubble into a turn. bubbleType
// comes from the conversation header, not the bubble payload.
func parseBubbleTurn(bubbleType int, value string) (ChatTurn, error) {
	var bubble rawBubble
	if err := json.Unmarshal([]byte(value), &bubble); err != nil {
		return ChatTurn{}, &ParseError{Source: "bubble", Key: "", Err: err}
	}

	turn := ChatTurn{Text: bubble.Text}
	switch bubbleType {
	case 1:
		turn.Role = "user"
	case 2:
		turn.Role = "assistant"
	default:
		turn.Role = "unknown"
	}

	if bubble.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, bubble.CreatedAt); err == nil {
			turn.Timestamp = t.Unix()
		}
	}
	if bubble.Thinking != nil && bubble.Thinking.Text != "" {
		turn.Thinking = &ThinkingBlock{
			Text:       bubble.Thinking.Text,
			DurationMs: bubble.ThinkingDurationMs,
		}
	}
	if bubble.ToolFormerData != nil && bubble.ToolFormerData.Name != "" {
		turn.ToolCalls = []ToolCall{{
			Name:   bubble.ToolFormerData.Name,
			Params: truncate(bubble.ToolFormerData.Params, maxParamChars),
			Result: truncate(bubble.ToolFormerData.Result, maxResultChars),
			Status: bubble.ToolFormerData.Status,
		}}
	}
	if bubble.ModelInfo != nil {
		turn.Model = bubble.ModelInfo.ModelName
	}
	if tc := bubble.TokenCount; tc != nil && (tc.InputTokens > 0 || tc.OutputTokens > 0) {
		turn.Tokens = &TokenCount{Input: tc.InputTokens, Output: tc.OutputTokens}
	}
	return turn, nil
}

// truncate limits s to max runes, marking the cut
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "...[truncated]"
}

// FormatUnixTime renders a unix-seconds timestamp for display
func FormatUnixTime(sec int64) string {
	return time.Unix(sec, 0).UTC().Format("2006-01-02 15:04:05")
}
