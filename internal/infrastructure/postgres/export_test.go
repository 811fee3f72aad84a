package postgres

// Puentes hacia las fases internas del runner para los tests externos del
// paquete.
var (
	DetectVersion = detectVersion
	InitSchema    = initSchema
	RunSteps      = runSteps
	SetVersion    = setVersion
)
