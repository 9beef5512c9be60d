package model

// Country mirrors an upstream country catalog entry. OrgID is the
// provider's country id.
type Country struct {
	ID     int64
	OrgID  int64
	NameRu string
	NameEn string
	Image  string
}
