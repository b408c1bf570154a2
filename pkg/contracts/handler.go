package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by anything that mounts routes on the shared router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
