package models

import "gorm.io/gorm"

// InterventionOutcome is one row of the historical outcome dataset: an
// attribute combination plus an intervention bitmask and the success rate
// observed for clients matching it. Rows are reference data, replaced in bulk
// by imports and never mutated individually.
type InterventionOutcome struct {
	gorm.Model
	Age                         int     `json:"age"`
	Gender                      int     `json:"gender"`
	WorkExperience              int     `json:"work_experience"`
	CanadaWorkex                int     `json:"canada_workex"`
	DepNum                      int     `json:"dep_num"`
	CanadaBorn                  bool    `json:"canada_born"`
	CitizenStatus               bool    `json:"citizen_status"`
	LevelOfSchooling            int     `json:"level_of_schooling"`
	FluentEnglish               bool    `json:"fluent_english"`
	ReadingEnglishScale         int     `json:"reading_english_scale"`
	SpeakingEnglishScale        int     `json:"speaking_english_scale"`
	WritingEnglishScale         int     `json:"writing_english_scale"`
	NumeracyScale               int     `json:"numeracy_scale"`
	ComputerScale               int     `json:"computer_scale"`
	TransportationBool          bool    `json:"transportation_bool"`
	CaregiverBool               bool    `json:"caregiver_bool"`
	Housing                     int     `json:"housing"`
	IncomeSource                int     `json:"income_source"`
	FelonyBool                  bool    `json:"felony_bool"`
	AttendingSchool             bool    `json:"attending_school"`
	CurrentlyEmployed           bool    `json:"currently_employed"`
	SubstanceUse                bool    `json:"substance_use"`
	TimeUnemployed              int     `json:"time_unemployed"`
	NeedMentalHealthSupportBool bool    `json:"need_mental_health_support_bool"`
	Interventions               uint8   `gorm:"not null;index" json:"interventions"`
	SuccessRate                 float64 `gorm:"not null" json:"success_rate"`
}

// AttributeVector returns the row's attributes in the same canonical order as
// Client.AttributeVector, so the two are directly comparable.
func (o *InterventionOutcome) AttributeVector() []float64 {
	return []float64{
		float64(o.Age),
		float64(o.Gender),
		float64(o.WorkExperience),
		float64(o.CanadaWorkex),
		float64(o.DepNum),
		boolToFloat(o.CanadaBorn),
		boolToFloat(o.CitizenStatus),
		float64(o.LevelOfSchooling),
		boolToFloat(o.FluentEnglish),
		float64(o.ReadingEnglishScale),
		float64(o.SpeakingEnglishScale),
		float64(o.WritingEnglishScale),
		float64(o.NumeracyScale),
		float64(o.ComputerScale),
		boolToFloat(o.TransportationBool),
		boolToFloat(o.CaregiverBool),
		float64(o.Housing),
		float64(o.IncomeSource),
		boolToFloat(o.FelonyBool),
		boolToFloat(o.AttendingSchool),
		boolToFloat(o.CurrentlyEmployed),
		boolToFloat(o.SubstanceUse),
		float64(o.TimeUnemployed),
		boolToFloat(o.NeedMentalHealthSupportBool),
	}
}
