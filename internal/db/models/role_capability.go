package models

// RoleCapability grants a capability to a role.
// Deleting either side removes the grant (CASCADE).
type RoleCapability struct {
	RoleID       uint       `gorm:"primaryKey;column:role_id"`
	CapabilityID uint       `gorm:"primaryKey;column:capability_id"`
	Role         Role       `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	Capability   Capability `gorm:"foreignKey:CapabilityID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the RoleCapability model.
func (RoleCapability) TableName() string {
	return "role_capabilities"
}

