// Package domain defines the study-tracking data model.
//
// This package contains type definitions and small value helpers only.
// Every other internal package imports domain; domain imports nothing internal.
//
// Key constraints:
//   - Ids are opaque strings assigned once at creation and never reused
//   - StudiedHours >= 0 and TargetHours > 0 on every Subject
//   - StudySession.SubjectName is a snapshot taken when the session was logged
//   - Assignment.Subject is a free-text label, not a reference to Subject.ID
package domain
