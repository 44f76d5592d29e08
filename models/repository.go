package models

import (
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// ClientCriteria filters clients by any combination of attributes. Nil fields
// are ignored. AgeMin is a lower bound; every other field is an equality
// match.
type ClientCriteria struct {
	AgeMin                      *int
	Gender                      *int
	WorkExperience              *int
	CanadaWorkex                *int
	DepNum                      *int
	CanadaBorn                  *bool
	CitizenStatus               *bool
	LevelOfSchooling            *int
	FluentEnglish               *bool
	ReadingEnglishScale         *int
	SpeakingEnglishScale        *int
	WritingEnglishScale         *int
	NumeracyScale               *int
	ComputerScale               *int
	TransportationBool          *bool
	CaregiverBool               *bool
	Housing                     *int
	IncomeSource                *int
	FelonyBool                  *bool
	AttendingSchool             *bool
	CurrentlyEmployed           *bool
	SubstanceUse                *bool
	TimeUnemployed              *int
	NeedMentalHealthSupportBool *bool
}

type Repository interface {
	CreateClient(client *Client) error
	GetClientByID(id uint) (*Client, error)
	ListClients(offset, limit int) ([]Client, int64, error)
	UpdateClient(client *Client) error
	DeleteClient(id uint) error

	GetClientsByCriteria(criteria ClientCriteria) ([]Client, error)
	GetClientsByServices(filters map[string]bool) ([]Client, error)
	GetClientsBySuccessRate(minRate float64) ([]Client, error)
	GetClientsByCaseWorker(caseWorkerID uint) ([]Client, error)

	GetClientCases(clientID uint) ([]ClientCase, error)
	GetCase(clientID, caseWorkerID uint) (*ClientCase, error)
	UpdateCase(clientCase *ClientCase) error
	CreateCaseAssignment(clientID, caseWorkerID uint) (*ClientCase, error)

	CreateUser(user *User) error
	GetUserByID(id uint) (*User, error)
	GetUserByUsername(username string) (*User, error)

	ReplaceOutcomes(rows []InterventionOutcome) error
	LoadOutcomes() ([]InterventionOutcome, error)

	Close() error
}

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&Client{}, &User{}, &ClientCase{}, &InterventionOutcome{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) CreateClient(client *Client) error {
	return r.db.Create(client).Error
}

func (r *PostgresRepository) GetClientByID(id uint) (*Client, error) {
	var client Client
	if err := r.db.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *PostgresRepository) ListClients(offset, limit int) ([]Client, int64, error) {
	var clients []Client
	if err := r.db.Offset(offset).Limit(limit).Find(&clients).Error; err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.Model(&Client{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

func (r *PostgresRepository) UpdateClient(client *Client) error {
	return r.db.Save(client).Error
}

// DeleteClient removes the client and its case records in one transaction.
func (r *PostgresRepository) DeleteClient(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var client Client
		if err := tx.First(&client, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&ClientCase{}).Error; err != nil {
			return err
		}
		return tx.Delete(&client).Error
	})
}

func (r *PostgresRepository) GetClientsByCriteria(criteria ClientCriteria) ([]Client, error) {
	query := r.db.Model(&Client{})

	if criteria.AgeMin != nil {
		query = query.Where("age >= ?", *criteria.AgeMin)
	}

	equals := map[string]interface{}{}
	addInt := func(column string, v *int) {
		if v != nil {
			equals[column] = *v
		}
	}
	addBool := func(column string, v *bool) {
		if v != nil {
			equals[column] = *v
		}
	}

	addInt("gender", criteria.Gender)
	addInt("work_experience", criteria.WorkExperience)
	addInt("canada_workex", criteria.CanadaWorkex)
	addInt("dep_num", criteria.DepNum)
	addBool("canada_born", criteria.CanadaBorn)
	addBool("citizen_status", criteria.CitizenStatus)
	addInt("level_of_schooling", criteria.LevelOfSchooling)
	addBool("fluent_english", criteria.FluentEnglish)
	addInt("reading_english_scale", criteria.ReadingEnglishScale)
	addInt("speaking_english_scale", criteria.SpeakingEnglishScale)
	addInt("writing_english_scale", criteria.WritingEnglishScale)
	addInt("numeracy_scale", criteria.NumeracyScale)
	addInt("computer_scale", criteria.ComputerScale)
	addBool("transportation_bool", criteria.TransportationBool)
	addBool("caregiver_bool", criteria.CaregiverBool)
	addInt("housing", criteria.Housing)
	addInt("income_source", criteria.IncomeSource)
	addBool("felony_bool", criteria.FelonyBool)
	addBool("attending_school", criteria.AttendingSchool)
	addBool("currently_employed", criteria.CurrentlyEmployed)
	addBool("substance_use", criteria.SubstanceUse)
	addInt("time_unemployed", criteria.TimeUnemployed)
	addBool("need_mental_health_support_bool", criteria.NeedMentalHealthSupportBool)

	if len(equals) > 0 {
		query = query.Where(equals)
	}

	var clients []Client
	if err := query.Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// GetClientsByServices returns clients having a case whose intervention flags
// match every entry in filters. Keys must come from InterventionColumns.
func (r *PostgresRepository) GetClientsByServices(filters map[string]bool) ([]Client, error) {
	valid := map[string]bool{}
	for _, col := range InterventionColumns() {
		valid[col] = true
	}

	query := r.db.Model(&Client{}).
		Joins("JOIN client_cases ON client_cases.client_id = clients.id").
		Where("client_cases.deleted_at IS NULL")

	for column, status := range filters {
		if !valid[column] {
			return nil, fmt.Errorf("unknown service %q", column)
		}
		query = query.Where(fmt.Sprintf("client_cases.%s = ?", column), status)
	}

	var clients []Client
	if err := query.Distinct("clients.*").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *PostgresRepository) GetClientsBySuccessRate(minRate float64) ([]Client, error) {
	var clients []Client
	err := r.db.Model(&Client{}).
		Joins("JOIN client_cases ON client_cases.client_id = clients.id").
		Where("client_cases.deleted_at IS NULL").
		Where("client_cases.success_rate >= ?", minRate).
		Distinct("clients.*").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *PostgresRepository) GetClientsByCaseWorker(caseWorkerID uint) ([]Client, error) {
	if _, err := r.GetUserByID(caseWorkerID); err != nil {
		return nil, err
	}

	var clients []Client
	err := r.db.Model(&Client{}).
		Joins("JOIN client_cases ON client_cases.client_id = clients.id").
		Where("client_cases.deleted_at IS NULL").
		Where("client_cases.case_worker_id = ?", caseWorkerID).
		Distinct("clients.*").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *PostgresRepository) GetClientCases(clientID uint) ([]ClientCase, error) {
	var cases []ClientCase
	if err := r.db.Where("client_id = ?", clientID).Find(&cases).Error; err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, ErrNotFound
	}
	return cases, nil
}

func (r *PostgresRepository) GetCase(clientID, caseWorkerID uint) (*ClientCase, error) {
	var clientCase ClientCase
	err := r.db.Where("client_id = ? AND case_worker_id = ?", clientID, caseWorkerID).
		First(&clientCase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &clientCase, nil
}

func (r *PostgresRepository) UpdateCase(clientCase *ClientCase) error {
	return r.db.Save(clientCase).Error
}

func (r *PostgresRepository) CreateCaseAssignment(clientID, caseWorkerID uint) (*ClientCase, error) {
	if _, err := r.GetClientByID(clientID); err != nil {
		return nil, err
	}
	if _, err := r.GetUserByID(caseWorkerID); err != nil {
		return nil, err
	}

	if _, err := r.GetCase(clientID, caseWorkerID); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	clientCase := &ClientCase{
		ClientID:     clientID,
		CaseWorkerID: caseWorkerID,
	}
	if err := r.db.Create(clientCase).Error; err != nil {
		return nil, err
	}
	return clientCase, nil
}

func (r *PostgresRepository) CreateUser(user *User) error {
	if _, err := r.GetUserByUsername(user.Username); err == nil {
		return ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return r.db.Create(user).Error
}

func (r *PostgresRepository) GetUserByID(id uint) (*User, error) {
	var user User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) GetUserByUsername(username string) (*User, error) {
	var user User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ReplaceOutcomes swaps the whole outcome dataset in one transaction so
// readers never see a half-imported table.
func (r *PostgresRepository) ReplaceOutcomes(rows []InterventionOutcome) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(&InterventionOutcome{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 500).Error
	})
}

func (r *PostgresRepository) LoadOutcomes() ([]InterventionOutcome, error) {
	var rows []InterventionOutcome
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
