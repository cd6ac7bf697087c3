package recommend

import "github.com/foundershelf/foundershelf-server/internal/domain"

// Snapshot is the immutable input bundle for one ranking call: everything is
// loaded in a single batch before the pipeline starts, and nothing in it is
// mutated afterwards. Concurrent rankings over the same snapshot are safe.
type Snapshot struct {
	Profile      ProfileView // nil on cold start
	Interactions []domain.Interaction
	History      []domain.HistoryEntry
	Statuses     []domain.BookStatus
	Books        []domain.Book
}
