package ledger

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
)

// DefaultCategories seed a new household's registry.
var DefaultCategories = map[TransactionType][]string{
	TransactionTypeExpense: {"Supermarket", "Eating Out", "Studies", "Car", "Savings", "Misc"},
	TransactionTypeIncome:  {"Fixed Income", "Variable Income"},
}

// SeedHousehold fills an empty ledger with its first member, the default
// categories and the member's default accounts.
func (c *Change) SeedHousehold(owner string, email string, now time.Time) (Member, error) {
	l := c.ledger
	if len(l.members) > 0 || len(l.accounts) > 0 {
		return Member{}, fmt.Errorf("%w: household %s is already initialised", ErrValidation, l.household.ID)
	}
	for _, typ := range []TransactionType{TransactionTypeExpense, TransactionTypeIncome} {
		for _, name := range DefaultCategories[typ] {
			if _, err := c.AddCategory(typ, name); err != nil {
				return Member{}, err
			}
		}
	}
	m, _, err := c.AddMember(owner, MemberRoleAdmin, email, now)
	return m, err
}

func (c *Change) AddCategory(typ TransactionType, name string) (Category, error) {
	l := c.ledger
	name = strings.TrimSpace(name)
	if !typ.Valid() {
		return Category{}, fmt.Errorf("%w: category type %q", ErrValidation, typ)
	}
	if name == "" {
		return Category{}, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	if l.categoryIndex(typ, name) >= 0 {
		return Category{}, fmt.Errorf("%w: %s category %q", ErrDuplicateName, typ, name)
	}
	c.saveCategories()
	cat := Category{ID: l.newID(), Type: typ, Name: name}
	l.categories = append(l.categories, cat)
	return cat, nil
}

// DeleteCategory removes a category no transaction of its type uses.
func (c *Change) DeleteCategory(typ TransactionType, name string) error {
	l := c.ledger
	idx := l.categoryIndex(typ, name)
	if idx < 0 {
		return fmt.Errorf("%w: %s %q", ErrCategoryNotFound, typ, name)
	}
	for _, tx := range l.transactions {
		if tx.Type == typ && tx.Category == name {
			return fmt.Errorf("%w: %q", ErrCategoryInUse, name)
		}
	}
	c.saveCategories()
	l.categories = slices.Delete(slices.Clone(l.categories), idx, idx+1)
	return nil
}

// MoveCategory swaps a category with its neighbour of the same type.
func (c *Change) MoveCategory(typ TransactionType, name string, dir MoveDirection) error {
	l := c.ledger
	idx := l.categoryIndex(typ, name)
	if idx < 0 {
		return fmt.Errorf("%w: %s %q", ErrCategoryNotFound, typ, name)
	}
	target := -1
	if dir == MoveUp {
		for i := idx - 1; i >= 0; i-- {
			if l.categories[i].Type == typ {
				target = i
				break
			}
		}
	} else {
		for i := idx + 1; i < len(l.categories); i++ {
			if l.categories[i].Type == typ {
				target = i
				break
			}
		}
	}
	if target < 0 {
		return nil
	}
	c.saveCategories()
	cats := slices.Clone(l.categories)
	cats[idx], cats[target] = cats[target], cats[idx]
	l.categories = cats
	return nil
}

// RenameCategory renames a registry entry and every transaction of the same
// type that references it. It returns the number of transactions rewritten.
func (c *Change) RenameCategory(typ TransactionType, oldName, newName string) (int, error) {
	l := c.ledger
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return 0, fmt.Errorf("%w: new category name is required", ErrValidation)
	}
	idx := l.categoryIndex(typ, oldName)
	if idx < 0 {
		return 0, fmt.Errorf("%w: %s %q", ErrCategoryNotFound, typ, oldName)
	}
	if newName == oldName {
		return 0, nil
	}
	if l.categoryIndex(typ, newName) >= 0 {
		return 0, fmt.Errorf("%w: %s category %q", ErrDuplicateName, typ, newName)
	}

	c.saveCategories()
	cats := slices.Clone(l.categories)
	cats[idx].Name = newName
	l.categories = cats

	updated := 0
	for _, id := range slices.Clone(l.txSeq) {
		tx := l.transactions[id]
		if tx.Type == typ && tx.Category == oldName {
			tx.Category = newName
			c.storeTransaction(tx)
			updated++
		}
	}
	return updated, nil
}

// AddMember registers a member and creates the member's default accounts.
func (c *Change) AddMember(name string, role MemberRole, email string, now time.Time) (Member, []Account, error) {
	l := c.ledger
	name = strings.TrimSpace(name)
	if name == "" {
		return Member{}, nil, fmt.Errorf("%w: member name is required", ErrValidation)
	}
	if role != MemberRoleAdmin && role != MemberRoleMember {
		return Member{}, nil, fmt.Errorf("%w: member role %q", ErrValidation, role)
	}
	if l.memberIndex(name) >= 0 {
		return Member{}, nil, fmt.Errorf("%w: member %q", ErrDuplicateName, name)
	}

	c.saveMembers()
	m := Member{ID: l.newID(), Name: name, Role: role, Email: strings.TrimSpace(email), CreatedAt: now}
	l.members = append(l.members, m)

	accounts, err := c.addDefaultAccounts(name, now)
	if err != nil {
		return Member{}, nil, err
	}
	return m, accounts, nil
}

// DeleteMember removes a member and the member's accounts. It is refused for
// the last member, for a member referenced by transactions, and when one of
// the member's accounts is still in use elsewhere.
func (c *Change) DeleteMember(name string) error {
	l := c.ledger
	idx := l.memberIndex(name)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrMemberNotFound, name)
	}
	if len(l.members) <= 1 {
		return ErrLastMember
	}
	for _, tx := range l.transactions {
		if tx.Member == name {
			return fmt.Errorf("%w: member %q", ErrHasTransactions, name)
		}
	}

	owned := make(map[uuid.UUID]bool)
	for id, acc := range l.accounts {
		if acc.Member == name {
			owned[id] = true
		}
	}
	for id := range owned {
		if l.hasTransactionsFor(id) {
			return fmt.Errorf("%w: account %q", ErrHasTransactions, l.accounts[id].Name)
		}
	}
	for _, acc := range l.accounts {
		if acc.ParentID.Valid && owned[acc.ParentID.UUID] && !owned[acc.ID] {
			return fmt.Errorf("%w: account %q", ErrHasChildren, l.accounts[acc.ParentID.UUID].Name)
		}
	}

	for _, id := range slices.Clone(l.accountSeq) {
		if owned[id] && l.accounts[id].HasParent() {
			c.removeAccount(id)
		}
	}
	for _, id := range slices.Clone(l.accountSeq) {
		if owned[id] {
			c.removeAccount(id)
		}
	}
	c.saveMembers()
	l.members = slices.Delete(slices.Clone(l.members), idx, idx+1)
	return nil
}

// RenameMember renames a member and every account and transaction that
// references the old name. It returns the number of records rewritten.
func (c *Change) RenameMember(oldName, newName string) (int, error) {
	l := c.ledger
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return 0, fmt.Errorf("%w: new member name is required", ErrValidation)
	}
	idx := l.memberIndex(oldName)
	if idx < 0 {
		return 0, fmt.Errorf("%w: %q", ErrMemberNotFound, oldName)
	}
	if newName == oldName {
		return 0, nil
	}
	if l.memberIndex(newName) >= 0 {
		return 0, fmt.Errorf("%w: member %q", ErrDuplicateName, newName)
	}

	c.saveMembers()
	members := slices.Clone(l.members)
	members[idx].Name = newName
	l.members = members

	updated := 0
	for _, id := range slices.Clone(l.accountSeq) {
		acc := l.accounts[id]
		if acc.Member == oldName {
			acc.Member = newName
			c.storeAccount(acc)
			updated++
		}
	}
	for _, id := range slices.Clone(l.txSeq) {
		tx := l.transactions[id]
		if tx.Member == oldName {
			tx.Member = newName
			c.storeTransaction(tx)
			updated++
		}
	}
	return updated, nil
}
