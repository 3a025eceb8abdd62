package configuration

type Configuration struct {
	HttpAddr   string `usage:"HTTP address"`
	OplogField string `usage:"JSON field holding the oplog ordering key"`
	Version    bool   `usage:"show version and exit"`
	ShowBanner bool   `usage:"show big banner"`
	ShowConfig bool   `usage:"print config"`
}

func Default() Configuration {
	return Configuration{
		HttpAddr:   ":8080",
		OplogField: "ts",
		ShowBanner: true,
	}
}
