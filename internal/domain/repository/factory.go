package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Bots() BotRepository
	Users() UserRepository
	Countries() CountryRepository
	Orders() OrderRepository
	Rents() RentRepository
}
