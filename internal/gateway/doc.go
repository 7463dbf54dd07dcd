// Package gateway persists tracker collections to a key-value backend.
//
// Each collection lives under its own key as a JSON array:
//
//	studyflow_subjects     []Subject
//	studyflow_assignments  []Assignment
//	studyflow_sessions     []StudySession
//
// Timestamps are written as UTC text with millisecond precision and are
// rehydrated to time.Time on load. A missing key loads as an empty collection;
// a key whose value is not a valid array fails the load.
//
// Saves follow tracker changes and write only the collections a change
// touched. Attach saves on every change; a Writer can also defer saves
// across a bulk operation with Hold and Release.
package gateway
