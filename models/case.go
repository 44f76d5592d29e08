package models

import "gorm.io/gorm"

// ClientCase assigns a client to a case worker and tracks which interventions
// are active for that case plus the current success-rate estimate (0-100).
// A (client, case worker) pair has at most one case.
type ClientCase struct {
	gorm.Model
	ClientID     uint `gorm:"not null;index:idx_client_worker,unique" json:"client_id"`
	CaseWorkerID uint `gorm:"not null;index:idx_client_worker,unique" json:"case_worker_id"`

	EmploymentAssistance               bool `json:"employment_assistance"`
	LifeStabilization                  bool `json:"life_stabilization"`
	RetentionServices                  bool `json:"retention_services"`
	SpecializedServices                bool `json:"specialized_services"`
	EmploymentRelatedFinancialSupports bool `json:"employment_related_financial_supports"`
	EmployerFinancialSupports          bool `json:"employer_financial_supports"`
	EnhancedReferrals                  bool `json:"enhanced_referrals"`

	SuccessRate float64 `json:"success_rate"`
}

// ServiceFlags returns the case's interventions as a bitmask in the canonical
// intervention order.
func (c *ClientCase) ServiceFlags() uint8 {
	flags := []bool{
		c.EmploymentAssistance,
		c.LifeStabilization,
		c.RetentionServices,
		c.SpecializedServices,
		c.EmploymentRelatedFinancialSupports,
		c.EmployerFinancialSupports,
		c.EnhancedReferrals,
	}
	var mask uint8
	for i, set := range flags {
		if set {
			mask |= 1 << i
		}
	}
	return mask
}

// SetServiceFlags applies a bitmask in the canonical intervention order.
func (c *ClientCase) SetServiceFlags(mask uint8) {
	c.EmploymentAssistance = mask&(1<<0) != 0
	c.LifeStabilization = mask&(1<<1) != 0
	c.RetentionServices = mask&(1<<2) != 0
	c.SpecializedServices = mask&(1<<3) != 0
	c.EmploymentRelatedFinancialSupports = mask&(1<<4) != 0
	c.EmployerFinancialSupports = mask&(1<<5) != 0
	c.EnhancedReferrals = mask&(1<<6) != 0
}
