package models

import "time"

// EquipmentStatus is the service state of a piece of gym equipment.
type EquipmentStatus string

const (
	EquipmentInService EquipmentStatus = "in-service"
	EquipmentInRepair  EquipmentStatus = "in-repair"
	EquipmentRetired   EquipmentStatus = "retired"
)

// Equipment is a tracked piece of gym equipment.
type Equipment struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Status         EquipmentStatus `json:"status"`
	PurchasedAt    time.Time       `json:"purchased_at"`
	LastServicedAt *time.Time      `json:"last_serviced_at,omitempty"`
}
