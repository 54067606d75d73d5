// Package all importa todos los adapters para auto-registro.
// Importar este paquete en main.go para habilitar todos los drivers.
//
// Uso:
//
//	import _ "github.com/davilabs/rapida/internal/store/adapters/all"
package all

import (
	_ "github.com/davilabs/rapida/internal/store/adapters/mongo"
	_ "github.com/davilabs/rapida/internal/store/adapters/mysql"
	_ "github.com/davilabs/rapida/internal/store/adapters/noop"
	_ "github.com/davilabs/rapida/internal/store/adapters/pg"
)
