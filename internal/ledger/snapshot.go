package ledger

import (
	"github.com/gofrs/uuid/v5"
)

// Snapshot is a complete, immutable copy of a household's state. It is also
// the shape a store loads a household into.
type Snapshot struct {
	Household    Household
	Members      []Member
	Categories   []Category // registry order
	Accounts     []Account
	Transactions []Transaction // insertion order
}

func (s *Snapshot) Account(id uuid.UUID) (Account, bool) {
	for _, acc := range s.Accounts {
		if acc.ID == id {
			return acc, true
		}
	}
	return Account{}, false
}

// AccountNames indexes display names by account id.
func (s *Snapshot) AccountNames() map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(s.Accounts))
	for _, acc := range s.Accounts {
		names[acc.ID] = acc.Name
	}
	return names
}

// CategoryNames lists the registry entries of one type in order.
func (s *Snapshot) CategoryNames(typ TransactionType) []string {
	var names []string
	for _, cat := range s.Categories {
		if cat.Type == typ {
			names = append(names, cat.Name)
		}
	}
	return names
}

// AccountsForMember lists a member's top-level accounts by order, each
// followed directly by its children.
func (s *Snapshot) AccountsForMember(member string) []Account {
	seq := make([]uuid.UUID, len(s.Accounts))
	var parents []Account
	children := make(map[uuid.UUID][]Account)
	for i, acc := range s.Accounts {
		seq[i] = acc.ID
		if acc.Member != member {
			continue
		}
		if acc.HasParent() {
			children[acc.ParentID.UUID] = append(children[acc.ParentID.UUID], acc)
		} else {
			parents = append(parents, acc)
		}
	}
	sortAccounts(parents, seq)

	result := make([]Account, 0, len(parents))
	for _, parent := range parents {
		result = append(result, parent)
		kids := children[parent.ID]
		sortAccounts(kids, seq)
		result = append(result, kids...)
		delete(children, parent.ID)
	}
	// children of another member's account go last
	var rest []Account
	for _, kids := range children {
		rest = append(rest, kids...)
	}
	sortAccounts(rest, seq)
	return append(result, rest...)
}
