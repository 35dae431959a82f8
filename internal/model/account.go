package model

import "time"

// SpectatorProfile holds the identity fields collected from spectators.
type SpectatorProfile struct {
    LastName  string `json:"last_name"`
    FirstName string `json:"first_name"`
    City      string `json:"city"`
    Phone     string `json:"phone"`
}

// AgentProfile holds the identity fields of managers and administrators.
type AgentProfile struct {
    LastName   string `json:"last_name"`
    FirstName  string `json:"first_name"`
    Department string `json:"department"`
}

// Account is a row of the `accounts` table.  Exactly one of Spectator or
// Agent is set, chosen by Role.  PasswordHash is never serialized.
type Account struct {
    ID           uint64            `json:"id"`
    Email        string            `json:"email"`
    PasswordHash string            `json:"-"`
    Name         string            `json:"name"`
    Role         Role              `json:"role"`
    Spectator    *SpectatorProfile `json:"spectator_profile,omitempty"`
    Agent        *AgentProfile     `json:"agent_profile,omitempty"`
    CreatedAt    time.Time         `json:"created_at"`
    UpdatedAt    time.Time         `json:"updated_at"`
}

// AccountInput carries the fields accepted when an administrator creates or
// updates an account.  Password is optional on update.
type AccountInput struct {
    Email     string
    Password  string
    Name      string
    Role      Role
    Spectator *SpectatorProfile
    Agent     *AgentProfile
}

// Registration is the public sign-up payload.  It always yields a SPECTATOR.
type Registration struct {
    Email    string
    Password string
    Name     string
    Profile  SpectatorProfile
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the raw token is stored.
type RefreshToken struct {
    ID        uint64
    AccountID uint64
    TokenHash string
    ExpiresAt time.Time
    RevokedAt *time.Time
    CreatedAt time.Time
}
