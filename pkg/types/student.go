package types

// Student is the tutoring profile carried in the gateway customer metadata.
type Student struct {
	Name    string `json:"name" bson:"name"`
	Grade   string `json:"grade" bson:"grade"`
	Subject string `json:"subject" bson:"subject"`
	Goals   string `json:"goals" bson:"goals"`
}

// Metadata keys used by the registration flow when the customer is created.
const (
	MetadataKeyPhone       = "phone"
	MetadataKeyStudentName = "studentName"
	MetadataKeyGrade       = "grade"
	MetadataKeySubject     = "subject"
	MetadataKeyGoals       = "goals"
)

// StudentFromMetadata builds the profile from customer metadata. Missing keys
// stay empty, mirroring how the metadata itself is free-form.
func StudentFromMetadata(metadata map[string]string) Student {
	return Student{
		Name:    metadata[MetadataKeyStudentName],
		Grade:   metadata[MetadataKeyGrade],
		Subject: metadata[MetadataKeySubject],
		Goals:   metadata[MetadataKeyGoals],
	}
}
