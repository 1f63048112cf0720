package models

// Collection names as stored in the remote store, keyed per user.
const (
	CollectionTasks        = "tasks"
	CollectionHabits       = "habits"
	CollectionGoals        = "goals"
	CollectionNotes        = "notes"
	CollectionTransactions = "transactions"
)

// CollectionNames lists the five data collections in a stable order.
var CollectionNames = []string{
	CollectionTasks,
	CollectionHabits,
	CollectionGoals,
	CollectionNotes,
	CollectionTransactions,
}

// Collections is the in-memory working set of the five per-user data
// collections. Slices are replaced wholesale by mutation operators, never
// edited in place.
type Collections struct {
	Tasks        []Task        `json:"tasks"`
	Habits       []Habit       `json:"habits"`
	Goals        []Goal        `json:"goals"`
	Notes        []Note        `json:"notes"`
	Transactions []Transaction `json:"transactions"`
}

// Clone returns a shallow-per-element copy with fresh slice headers, so a
// caller can hold a snapshot while mutation operators replace the originals.
func (c Collections) Clone() Collections {
	return Collections{
		Tasks:        append([]Task(nil), c.Tasks...),
		Habits:       append([]Habit(nil), c.Habits...),
		Goals:        append([]Goal(nil), c.Goals...),
		Notes:        append([]Note(nil), c.Notes...),
		Transactions: append([]Transaction(nil), c.Transactions...),
	}
}
