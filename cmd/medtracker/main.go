package main

import "github.com/mariamabdalla2350-rgb/medication-tracker/cmd/medtracker/command"

// @title Medication Tracker API
// @version 1.0
// @description Registro de medicamentos, tomas diarias, recordatorios y resumen semanal.
// @BasePath /
func main() {
	command.Execute()
}
