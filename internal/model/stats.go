package model

// Stats aggregates counts across every table for the manager dashboard.
type Stats struct {
    TotalAccounts     int64          `json:"total_accounts"`
    TotalSpectators   int64          `json:"total_spectators"`
    TotalManagers     int64          `json:"total_managers"`
    TotalAdmins       int64          `json:"total_admins"`
    TotalProgrammes   int64          `json:"total_programmes"`
    TotalReservations int64          `json:"total_reservations"`
    TotalRevenue      float64        `json:"total_revenue"`
    RecentActivity    RecentActivity `json:"recent_activity"`
}

// RecentActivity holds the deltas since the first instant of the current
// calendar month.
type RecentActivity struct {
    NewAccountsThisMonth     int64   `json:"new_accounts_this_month"`
    NewReservationsThisMonth int64   `json:"new_reservations_this_month"`
    RevenueThisMonth         float64 `json:"revenue_this_month"`
}
