package models

import "time"

type User struct {
	UserID            string                      `json:"userid" bson:"userid"`
	Username          string                      `json:"username" bson:"username"`
	Email             string                      `json:"email,omitempty" bson:"email,omitempty"`
	Password          string                      `json:"password,omitempty" bson:"password,omitempty"`
	Role              []string                    `json:"role,omitempty" bson:"role,omitempty"`
	RefreshToken      string                      `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry     time.Time                   `json:"-" bson:"refresh_expiry,omitempty"`
	LastLogin         time.Time                   `json:"last_login,omitempty" bson:"last_login,omitempty"`
	ConnectedAccounts map[string]ConnectedAccount `json:"connectedAccounts,omitempty" bson:"connectedAccounts,omitempty"`
}

// ConnectedAccount caches display data for a linked notification channel.
// Keys in User.ConnectedAccounts are provider names: "google" or "line".
type ConnectedAccount struct {
	DisplayName string `json:"displayName" bson:"displayName"`
	PhotoURL    string `json:"photoUrl" bson:"photoUrl"`
	ConnectedAt string `json:"connectedAt" bson:"connectedAt"`
}

type SiteSettings struct {
	WebName string `json:"webName" bson:"webName"`
	Address string `json:"address" bson:"address"`
	Email   string `json:"email" bson:"email"`
	Phone   string `json:"phone" bson:"phone"`
}

// Index represents an indexing-related message to be emitted.
type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	ItemId     string `json:"item_id,omitempty"`
	ItemType   string `json:"item_type,omitempty"`
}
