package seen

import "errors"

var errNoBackend = errors.New("seen store has no backend")
