package model

import "time"

// Snapshot is the last known-good copy of the reference data.
type Snapshot struct {
	Containers          []Container         `json:"containers"`
	AccountsByContainer map[int64][]Account `json:"accountsByContainer"`
	Categories          []Category          `json:"categories"`
	FetchedAt           time.Time           `json:"fetchedAt"`
}

func (s Snapshot) IsEmpty() bool {
	return len(s.Containers) == 0 && len(s.Categories) == 0 && s.AccountCount() == 0
}

func (s Snapshot) AccountsFor(containerID int64) []Account {
	return s.AccountsByContainer[containerID]
}

func (s Snapshot) AccountCount() int {
	n := 0
	for _, accounts := range s.AccountsByContainer {
		n += len(accounts)
	}
	return n
}

func (s Snapshot) FindAccount(id int64) (Account, bool) {
	for _, accounts := range s.AccountsByContainer {
		for _, acc := range accounts {
			if acc.ID == id {
				return acc, true
			}
		}
	}
	return Account{}, false
}

func (s Snapshot) FindContainer(id int64) (Container, bool) {
	for _, c := range s.Containers {
		if c.ID == id {
			return c, true
		}
	}
	return Container{}, false
}

func (s Snapshot) FindCategory(id int64) (Category, bool) {
	for _, c := range s.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
