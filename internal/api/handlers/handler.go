package handlers

import (
	"github.com/rohits-web03/filekeep/internal/config"
	"github.com/rohits-web03/filekeep/internal/controllers"
	"github.com/rohits-web03/filekeep/internal/repositories"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// Handler serves the HTTP API. All dependencies are injected by the router.
type Handler struct {
	cfg    config.Config
	db     *gorm.DB
	files  *controllers.FilesController
	store  *repositories.FileStore
	users  *repositories.UserStore
	blobs  repositories.BlobStore
	google *oauth2.Config
}

// Deps groups what the handlers need.
type Deps struct {
	Config config.Config
	DB     *gorm.DB
	Blobs  repositories.BlobStore
	Google *oauth2.Config
}

func New(deps Deps) *Handler {
	store := repositories.NewFileStore(deps.DB)
	return &Handler{
		cfg:    deps.Config,
		db:     deps.DB,
		files:  controllers.NewFilesController(store, deps.Blobs),
		store:  store,
		users:  repositories.NewUserStore(deps.DB),
		blobs:  deps.Blobs,
		google: deps.Google,
	}
}
