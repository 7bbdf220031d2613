package enum

// ── Group A: State machines (CHECK constrained in DB) ──

const (
	OrderStatusPending    = "PENDING"
	OrderStatusInProgress = "IN_PROGRESS"
	OrderStatusComplete   = "COMPLETE"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusVoided     = "VOIDED"
)

const (
	OriginChannelFrontDesk = "FRONT_DESK"
	OriginChannelAdmission = "ADMISSION"
)

// ── Group B: Derived labels (never persisted) ──

const (
	AlertNone    = "NONE"
	AlertDelayed = "DELAYED"
	AlertOverdue = "OVERDUE"
)

// ── Group C: Borderline (CHECK constrained in DB) ──

const (
	UserRoleAdmin      = "ADMIN"
	UserRoleReception  = "RECEPTION"
	UserRoleTechnician = "TECHNICIAN"
	UserRoleCashier    = "CASHIER"
)

const (
	SexMale   = "M"
	SexFemale = "F"
	SexOther  = "O"
)

// ── Code prefixes for human-readable identifiers ──

const (
	PatientCodePrefix = "PAC"
	OrderCodePrefix   = "ORD"
)
