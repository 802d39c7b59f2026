package providers

import (
	"github.com/samber/do/v2"

	"github.com/readlog/readlog-server/internal/auth"
	"github.com/readlog/readlog-server/internal/config"
	"github.com/readlog/readlog-server/internal/logger"
	"github.com/readlog/readlog-server/internal/service"
	"github.com/readlog/readlog-server/internal/validation"
)

// followedBooksSessions is how many readers keep a followed-books result.
const followedBooksSessions = 1024

// ProvideValidator provides the shared request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, validator, log.Logger), nil
}

// ProvideBookService provides the book service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, searchService, validator, log.Logger), nil
}

// ProvideTBRService provides the to-be-read queue service.
func ProvideTBRService(i do.Injector) (*service.TBRService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTBRService(storeHandle.Store, searchService, validator, log.Logger), nil
}

// ProvideReviewService provides the review service.
func ProvideReviewService(i do.Injector) (*service.ReviewService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	bookService := do.MustInvoke[*service.BookService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReviewService(storeHandle.Store, bookService, validator, log.Logger), nil
}

// ProvideProfileService provides the cached profile service.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProfileService(storeHandle.Store, validator, log.Logger, cfg.Cache.ProfileEntries)
}

// ProvideSocialService provides the follow graph service.
func ProvideSocialService(i do.Injector) (*service.SocialService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	profileService := do.MustInvoke[*service.ProfileService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSocialService(storeHandle.Store, profileService, log.Logger), nil
}

// ProvideFollowedBooksSearches provides the per-reader followed-books searches.
func ProvideFollowedBooksSearches(i do.Injector) (*service.FollowedBooksSearches, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewFollowedBooksService(storeHandle.Store, log.Logger)
	return service.NewFollowedBooksSearches(svc, followedBooksSessions)
}

// ProvideInterchangeService provides Goodreads import and export.
func ProvideInterchangeService(i do.Injector) (*service.InterchangeService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	bookService := do.MustInvoke[*service.BookService](i)
	tbrService := do.MustInvoke[*service.TBRService](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewInterchangeService(storeHandle.Store, bookService, tbrService, searchService, log.Logger), nil
}
