package models

import "gorm.io/gorm"

// Client is a person registered in the case-management system. The attribute
// columns mirror the intake assessment form; scale fields are 1-10 unless
// noted otherwise.
type Client struct {
	gorm.Model
	Age                         int  `gorm:"not null" json:"age"`
	Gender                      int  `gorm:"not null" json:"gender"` // 1 or 2
	WorkExperience              int  `json:"work_experience"`
	CanadaWorkex                int  `json:"canada_workex"`
	DepNum                      int  `json:"dep_num"`
	CanadaBorn                  bool `json:"canada_born"`
	CitizenStatus               bool `json:"citizen_status"`
	LevelOfSchooling            int  `json:"level_of_schooling"` // 1-14
	FluentEnglish               bool `json:"fluent_english"`
	ReadingEnglishScale         int  `json:"reading_english_scale"`
	SpeakingEnglishScale        int  `json:"speaking_english_scale"`
	WritingEnglishScale         int  `json:"writing_english_scale"`
	NumeracyScale               int  `json:"numeracy_scale"`
	ComputerScale               int  `json:"computer_scale"`
	TransportationBool          bool `json:"transportation_bool"`
	CaregiverBool               bool `json:"caregiver_bool"`
	Housing                     int  `json:"housing"`       // 1-10
	IncomeSource                int  `json:"income_source"` // 1-10
	FelonyBool                  bool `json:"felony_bool"`
	AttendingSchool             bool `json:"attending_school"`
	CurrentlyEmployed           bool `json:"currently_employed"`
	SubstanceUse                bool `json:"substance_use"`
	TimeUnemployed              int  `json:"time_unemployed"`
	NeedMentalHealthSupportBool bool `json:"need_mental_health_support_bool"`
}

// AttributeVector returns the client's attributes in the canonical column
// order used by the outcome table lookup.
func (c *Client) AttributeVector() []float64 {
	return []float64{
		float64(c.Age),
		float64(c.Gender),
		float64(c.WorkExperience),
		float64(c.CanadaWorkex),
		float64(c.DepNum),
		boolToFloat(c.CanadaBorn),
		boolToFloat(c.CitizenStatus),
		float64(c.LevelOfSchooling),
		boolToFloat(c.FluentEnglish),
		float64(c.ReadingEnglishScale),
		float64(c.SpeakingEnglishScale),
		float64(c.WritingEnglishScale),
		float64(c.NumeracyScale),
		float64(c.ComputerScale),
		boolToFloat(c.TransportationBool),
		boolToFloat(c.CaregiverBool),
		float64(c.Housing),
		float64(c.IncomeSource),
		boolToFloat(c.FelonyBool),
		boolToFloat(c.AttendingSchool),
		boolToFloat(c.CurrentlyEmployed),
		boolToFloat(c.SubstanceUse),
		float64(c.TimeUnemployed),
		boolToFloat(c.NeedMentalHealthSupportBool),
	}
}

// AttributeColumns lists the attribute names in the same order as
// AttributeVector. Outcome imports use it to map file headers.
func AttributeColumns() []string {
	return []string{
		"age",
		"gender",
		"work_experience",
		"canada_workex",
		"dep_num",
		"canada_born",
		"citizen_status",
		"level_of_schooling",
		"fluent_english",
		"reading_english_scale",
		"speaking_english_scale",
		"writing_english_scale",
		"numeracy_scale",
		"computer_scale",
		"transportation_bool",
		"caregiver_bool",
		"housing",
		"income_source",
		"felony_bool",
		"attending_school",
		"currently_employed",
		"substance_use",
		"time_unemployed",
		"need_mental_health_support_bool",
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
