package main

type CPUConfig struct {
	IPMemory   string `json:"IP_MEMORIA" yaml:"IP_MEMORIA"`
	PortMemory int    `json:"PUERTO_MEMORIA" yaml:"PUERTO_MEMORIA"`
	LogLevel   string `json:"LOG_LEVEL" yaml:"LOG_LEVEL"`
	MaxThreads int    `json:"HILOS_MAXIMOS" yaml:"HILOS_MAXIMOS"` // Scripts que corren a la vez
}
