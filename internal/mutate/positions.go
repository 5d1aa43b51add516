package mutate

import (
	"github.com/google/uuid"

	"github.com/corkboardhq/corkboard/internal/domain"
	"github.com/corkboardhq/corkboard/internal/position"
)

func listItems(lists []*domain.List) []position.Item {
	items := make([]position.Item, len(lists))
	for i, l := range lists {
		items[i] = position.Item{ID: l.ID, Pos: l.Position}
	}
	return items
}

func cardItems(cards []*domain.Card) []position.Item {
	items := make([]position.Item, len(cards))
	for i, c := range cards {
		items[i] = position.Item{ID: c.ID, Pos: c.Position}
	}
	return items
}

// ownPosition extracts the subject's own write from the engine output.
func ownPosition(writes []position.Write, id uuid.UUID) (int, bool) {
	for _, w := range writes {
		if w.ID == id {
			return w.Pos, true
		}
	}
	return 0, false
}

func allWrites(writes []position.Write) []domain.PositionWrite {
	out := make([]domain.PositionWrite, len(writes))
	for i, w := range writes {
		out[i] = domain.PositionWrite{ID: w.ID, Position: w.Pos}
	}
	return out
}

// siblingWrites converts engine writes to repository writes, excluding the
// subject itself (its position is persisted with the entity row).
func siblingWrites(writes []position.Write, exclude uuid.UUID) []domain.PositionWrite {
	out := make([]domain.PositionWrite, 0, len(writes))
	for _, w := range writes {
		if w.ID == exclude {
			continue
		}
		out = append(out, domain.PositionWrite{ID: w.ID, Position: w.Pos})
	}
	return out
}
