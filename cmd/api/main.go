package main

// @title Shelter Adoptions API
// @version 1.0
// @description Solicitudes de adopción y disponibilidad de perros del refugio.
// @description Cada cambio de estado de una solicitud reconcilia la disponibilidad del perro en la misma transacción.
// @BasePath /
func main() {
	Execute()
}
