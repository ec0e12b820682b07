package kv

// Persisted key layout. One string value per key.
const (
	PropertiesKey          = "rentapp_properties"
	PropertyStatusKey      = "rentapp_property_status"
	StatusConfirmationsKey = "rentapp_status_confirmations"

	bookmarksPrefix        = "rentapp_bookmarks_"
	removedBookmarksPrefix = "rentapp_recently_removed_bookmarks_"
	staffNotesPrefix       = "rentapp_notes_staff_"
	userStaffNotesPrefix   = "rentapp_user_notes_staff_"
	privateNotesPrefix     = "rentapp_notes_"
)

// GuestUser is the bookmark owner used when nobody is signed in.
const GuestUser = "guest"

func userOrGuest(userID string) string {
	if userID == "" {
		return GuestUser
	}
	return userID
}

// BookmarksKey holds the active bookmark ids for a user.
func BookmarksKey(userID string) string {
	return bookmarksPrefix + userOrGuest(userID)
}

// RemovedBookmarksKey holds the recently removed bookmarks for a user.
func RemovedBookmarksKey(userID string) string {
	return removedBookmarksPrefix + userOrGuest(userID)
}

// StaffNotesKey holds the shared staff ledger for a property.
func StaffNotesKey(propertyID string) string {
	return staffNotesPrefix + propertyID
}

// UserStaffNotesKey holds the shared behavioral ledger for a user.
func UserStaffNotesKey(userID string) string {
	return userStaffNotesPrefix + userID
}

// PrivateNotesKey holds one user's private notes on a property.
func PrivateNotesKey(userID, propertyID string) string {
	return privateNotesPrefix + userID + "_" + propertyID
}
