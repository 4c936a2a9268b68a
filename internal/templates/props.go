package templates

// ErrorPageProps feeds ErrorPage.
type ErrorPageProps struct {
	Error   string
	Message string
}

// AuthorizedPageProps feeds AuthorizedPage, shown once the athlete's
// credential has been stored.
type AuthorizedPageProps struct {
	DisplayName string
	AthleteID   int64
}
