package models

import (
	"strconv"
	"strings"
)

// Collection names below a user root.
const (
	CollectionSubjects  = "subjects"
	CollectionGrades    = "grades"
	CollectionNotes     = "notes"
	CollectionReminders = "reminders"
	CollectionProfile   = "profile"

	// ProfileDocID is the id of the single document in the profile collection.
	ProfileDocID = "data"

	usersRoot = "users"
)

// UserRoot returns the path prefix that owns every collection of userID.
func UserRoot(userID int64) string {
	return usersRoot + "/" + strconv.FormatInt(userID, 10)
}

// SubjectsPath returns users/{uid}/subjects.
func SubjectsPath(userID int64) string {
	return UserRoot(userID) + "/" + CollectionSubjects
}

// GradesPath returns users/{uid}/subjects/{sid}/grades.
func GradesPath(userID int64, subjectID string) string {
	return SubjectsPath(userID) + "/" + subjectID + "/" + CollectionGrades
}

// NotesPath returns users/{uid}/notes.
func NotesPath(userID int64) string {
	return UserRoot(userID) + "/" + CollectionNotes
}

// RemindersPath returns users/{uid}/reminders.
func RemindersPath(userID int64) string {
	return UserRoot(userID) + "/" + CollectionReminders
}

// ProfilePath returns users/{uid}/profile.
func ProfilePath(userID int64) string {
	return UserRoot(userID) + "/" + CollectionProfile
}

// OwnerOf extracts the owning user ID from a collection path. It returns
// false when the path is not rooted at users/{uid}.
func OwnerOf(path string) (int64, bool) {
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] != usersRoot {
		return 0, false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
