package handlers

import (
	"sort"

	"case-management-tool/models"
)

// fakeRepo is an in-memory Repository for handler tests.
type fakeRepo struct {
	clients  map[uint]*models.Client
	users    map[uint]*models.User
	cases    map[uint]*models.ClientCase
	outcomes []models.InterventionOutcome
	nextID   uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		clients: map[uint]*models.Client{},
		users:   map[uint]*models.User{},
		cases:   map[uint]*models.ClientCase{},
		nextID:  1,
	}
}

func (f *fakeRepo) id() uint {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeRepo) CreateClient(client *models.Client) error {
	client.ID = f.id()
	copied := *client
	f.clients[client.ID] = &copied
	return nil
}

func (f *fakeRepo) GetClientByID(id uint) (*models.Client, error) {
	client, ok := f.clients[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *client
	return &copied, nil
}

func (f *fakeRepo) ListClients(offset, limit int) ([]models.Client, int64, error) {
	ids := make([]uint, 0, len(f.clients))
	for id := range f.clients {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []models.Client
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, *f.clients[id])
	}
	return out, int64(len(f.clients)), nil
}

func (f *fakeRepo) UpdateClient(client *models.Client) error {
	if _, ok := f.clients[client.ID]; !ok {
		return models.ErrNotFound
	}
	copied := *client
	f.clients[client.ID] = &copied
	return nil
}

func (f *fakeRepo) DeleteClient(id uint) error {
	if _, ok := f.clients[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.clients, id)
	for caseID, clientCase := range f.cases {
		if clientCase.ClientID == id {
			delete(f.cases, caseID)
		}
	}
	return nil
}

func (f *fakeRepo) GetClientsByCriteria(criteria models.ClientCriteria) ([]models.Client, error) {
	var out []models.Client
	for _, client := range f.clients {
		if criteria.AgeMin != nil && client.Age < *criteria.AgeMin {
			continue
		}
		if criteria.Gender != nil && client.Gender != *criteria.Gender {
			continue
		}
		if criteria.CurrentlyEmployed != nil && client.CurrentlyEmployed != *criteria.CurrentlyEmployed {
			continue
		}
		if criteria.LevelOfSchooling != nil && client.LevelOfSchooling != *criteria.LevelOfSchooling {
			continue
		}
		out = append(out, *client)
	}
	sortClients(out)
	return out, nil
}

func caseFlag(clientCase *models.ClientCase, column string) bool {
	switch column {
	case "employment_assistance":
		return clientCase.EmploymentAssistance
	case "life_stabilization":
		return clientCase.LifeStabilization
	case "retention_services":
		return clientCase.RetentionServices
	case "specialized_services":
		return clientCase.SpecializedServices
	case "employment_related_financial_supports":
		return clientCase.EmploymentRelatedFinancialSupports
	case "employer_financial_supports":
		return clientCase.EmployerFinancialSupports
	case "enhanced_referrals":
		return clientCase.EnhancedReferrals
	}
	return false
}

func (f *fakeRepo) GetClientsByServices(filters map[string]bool) ([]models.Client, error) {
	seen := map[uint]bool{}
	var out []models.Client
	for _, clientCase := range f.cases {
		matches := true
		for column, status := range filters {
			if caseFlag(clientCase, column) != status {
				matches = false
				break
			}
		}
		if !matches || seen[clientCase.ClientID] {
			continue
		}
		if client, ok := f.clients[clientCase.ClientID]; ok {
			seen[clientCase.ClientID] = true
			out = append(out, *client)
		}
	}
	sortClients(out)
	return out, nil
}

func (f *fakeRepo) GetClientsBySuccessRate(minRate float64) ([]models.Client, error) {
	seen := map[uint]bool{}
	var out []models.Client
	for _, clientCase := range f.cases {
		if clientCase.SuccessRate < minRate || seen[clientCase.ClientID] {
			continue
		}
		if client, ok := f.clients[clientCase.ClientID]; ok {
			seen[clientCase.ClientID] = true
			out = append(out, *client)
		}
	}
	sortClients(out)
	return out, nil
}

func (f *fakeRepo) GetClientsByCaseWorker(caseWorkerID uint) ([]models.Client, error) {
	if _, ok := f.users[caseWorkerID]; !ok {
		return nil, models.ErrNotFound
	}
	var out []models.Client
	for _, clientCase := range f.cases {
		if clientCase.CaseWorkerID != caseWorkerID {
			continue
		}
		if client, ok := f.clients[clientCase.ClientID]; ok {
			out = append(out, *client)
		}
	}
	sortClients(out)
	return out, nil
}

func (f *fakeRepo) GetClientCases(clientID uint) ([]models.ClientCase, error) {
	var out []models.ClientCase
	for _, clientCase := range f.cases {
		if clientCase.ClientID == clientID {
			out = append(out, *clientCase)
		}
	}
	if len(out) == 0 {
		return nil, models.ErrNotFound
	}
	return out, nil
}

func (f *fakeRepo) GetCase(clientID, caseWorkerID uint) (*models.ClientCase, error) {
	for _, clientCase := range f.cases {
		if clientCase.ClientID == clientID && clientCase.CaseWorkerID == caseWorkerID {
			copied := *clientCase
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeRepo) UpdateCase(clientCase *models.ClientCase) error {
	if _, ok := f.cases[clientCase.ID]; !ok {
		return models.ErrNotFound
	}
	copied := *clientCase
	f.cases[clientCase.ID] = &copied
	return nil
}

func (f *fakeRepo) CreateCaseAssignment(clientID, caseWorkerID uint) (*models.ClientCase, error) {
	if _, ok := f.clients[clientID]; !ok {
		return nil, models.ErrNotFound
	}
	if _, ok := f.users[caseWorkerID]; !ok {
		return nil, models.ErrNotFound
	}
	if _, err := f.GetCase(clientID, caseWorkerID); err == nil {
		return nil, models.ErrConflict
	}
	clientCase := &models.ClientCase{ClientID: clientID, CaseWorkerID: caseWorkerID}
	clientCase.ID = f.id()
	f.cases[clientCase.ID] = clientCase
	copied := *clientCase
	return &copied, nil
}

func (f *fakeRepo) CreateUser(user *models.User) error {
	for _, existing := range f.users {
		if existing.Username == user.Username {
			return models.ErrConflict
		}
	}
	user.ID = f.id()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeRepo) GetUserByID(id uint) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeRepo) GetUserByUsername(username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeRepo) ReplaceOutcomes(rows []models.InterventionOutcome) error {
	f.outcomes = append([]models.InterventionOutcome(nil), rows...)
	return nil
}

func (f *fakeRepo) LoadOutcomes() ([]models.InterventionOutcome, error) {
	return append([]models.InterventionOutcome(nil), f.outcomes...), nil
}

func (f *fakeRepo) Close() error { return nil }

func sortClients(clients []models.Client) {
	sort.Slice(clients, func(i, j int) bool { return clients[i].ID < clients[j].ID })
}
