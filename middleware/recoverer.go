package middleware

import (
	"net/http"

	"ctonews/oops"
	"ctonews/routes/rutil"
)

func Recoverer(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil && rvr != http.ErrAbortHandler {
				err, ok := rvr.(error)
				if !ok {
					err = oops.Newf("%v", rvr)
				}
				GetLogger(r).Error().Err(oops.Wrap(err)).Msg("Panic in handler")
				rutil.MustWriteJson(w, http.StatusInternalServerError, map[string]any{
					"detail": "Internal server error",
				})
			}
		}()

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}
