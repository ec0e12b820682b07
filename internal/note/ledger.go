// Package note keeps ledgers of attributed note blocks.
//
// A ledger is read whole, changed in a local buffer and written back whole.
// Two editors saving the same ledger concurrently lose one of the saves.
package note

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/evcraddock/rentapp/internal/bus"
	"github.com/evcraddock/rentapp/internal/clock"
	"github.com/evcraddock/rentapp/internal/codec"
)

// UnknownEditor attributes blocks migrated from plain-text notes.
const UnknownEditor = "Unknown"

// Block is one independently editable piece of a ledger.
type Block struct {
	BlockID        string    `json:"blockId"`
	Content        string    `json:"content"`
	LastEditorName string    `json:"lastEditorName"`
	LastEditedAt   time.Time `json:"lastEditedAt"`
}

// Ledger loads and saves note ledgers by store key.
type Ledger struct {
	codec *codec.Codec
	clock clock.Clock
	bus   bus.Publisher
}

// NewLedger creates a ledger service.
func NewLedger(c *codec.Codec, clk clock.Clock, pub bus.Publisher) *Ledger {
	return &Ledger{codec: c, clock: clk, bus: pub}
}

// Load returns the blocks stored under key. A value stored before notes
// were split into blocks comes back as one block by UnknownEditor whose id
// is derived from key and value, so it stays the same across loads.
func (l *Ledger) Load(key string) []Block {
	raw, ok := l.codec.Raw(key)
	if !ok {
		return nil
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	if looksLikeBlocks(trimmed) {
		var blocks []Block
		if err := json.Unmarshal([]byte(trimmed), &blocks); err != nil {
			l.codec.Discard(key, err)
			return nil
		}
		return blocks
	}

	text := raw
	var s string
	if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
		text = s
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return []Block{{
		BlockID:        legacyBlockID(key, raw),
		Content:        text,
		LastEditorName: UnknownEditor,
		LastEditedAt:   l.clock.Now(),
	}}
}

// looksLikeBlocks reports whether v was written as a block list. Saved
// ledgers are never empty, so they always open with "[{". Other values,
// including text that happens to start with a bracket, are plain-text notes.
func looksLikeBlocks(v string) bool {
	rest, ok := strings.CutPrefix(v, "[")
	if !ok {
		return false
	}
	rest = strings.TrimSpace(rest)
	return strings.HasPrefix(rest, "{") || strings.HasPrefix(rest, "]")
}

func legacyBlockID(key, raw string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key+"\x00"+raw)).String()
}

// Save writes blocks under key as given. Callers drop empty blocks with
// Clean first. An empty ledger removes the key.
func (l *Ledger) Save(key string, blocks []Block) error {
	var err error
	if len(blocks) == 0 {
		err = l.codec.Remove(key)
	} else {
		err = l.codec.Encode(key, blocks)
	}
	if err != nil {
		return fmt.Errorf("saving notes: %w", err)
	}

	l.bus.Publish(bus.Event{Kind: bus.NotesChanged, Key: key})
	return nil
}

// Edit replaces the content of one block and stamps it with editor. Other
// blocks are left untouched. It reports false if no block has blockID.
func (l *Ledger) Edit(blocks []Block, blockID, content, editor string) ([]Block, bool) {
	i := slices.IndexFunc(blocks, func(b Block) bool { return b.BlockID == blockID })
	if i < 0 {
		return blocks, false
	}

	out := slices.Clone(blocks)
	out[i].Content = norm.NFC.String(content)
	out[i].LastEditorName = editor
	out[i].LastEditedAt = l.clock.Now()
	return out, true
}

// Append adds a new block at the end of the ledger.
func (l *Ledger) Append(blocks []Block, content, editor string) ([]Block, Block) {
	b := Block{
		BlockID:        uuid.NewString(),
		Content:        norm.NFC.String(content),
		LastEditorName: editor,
		LastEditedAt:   l.clock.Now(),
	}
	return append(slices.Clone(blocks), b), b
}

// Delete removes the block with blockID.
func Delete(blocks []Block, blockID string) ([]Block, bool) {
	out := slices.DeleteFunc(slices.Clone(blocks), func(b Block) bool { return b.BlockID == blockID })
	return out, len(out) != len(blocks)
}

// Clean drops blocks whose content is blank.
func Clean(blocks []Block) []Block {
	return slices.DeleteFunc(slices.Clone(blocks), func(b Block) bool {
		return strings.TrimSpace(b.Content) == ""
	})
}

// HasContent reports whether any block has non-blank content.
func HasContent(blocks []Block) bool {
	return slices.ContainsFunc(blocks, func(b Block) bool {
		return strings.TrimSpace(b.Content) != ""
	})
}

// EditedBy reports whether a block with content was last edited by name.
func EditedBy(blocks []Block, name string) bool {
	return slices.ContainsFunc(blocks, func(b Block) bool {
		return b.LastEditorName == name && strings.TrimSpace(b.Content) != ""
	})
}
