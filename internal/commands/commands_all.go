package commands

// Deps are the collaborators the built-in commands use. Nil entries leave
// the matching commands unregistered.
type Deps struct {
	Titles   TitleCommander
	Rates    RateFinder
	Airports AirportFinder
	Plugins  PluginLister
}

// RegisterBuiltins registers the built-in commands on router.
func RegisterBuiltins(router *Router, deps Deps) error {
	builtins := []Command{
		{Name: "help", Description: "Show available commands", Usage: "help [command]", Handler: helpCmd(router)},
	}
	if deps.Titles != nil {
		builtins = append(builtins, Command{
			Name:        "title",
			Description: "Show the page title of a URL, or of the last URL seen in the channel",
			Usage:       "title [url ...]",
			Handler:     titleCmd(deps.Titles),
		})
	}
	if deps.Rates != nil {
		builtins = append(builtins, Command{
			Name:        "cur",
			Aliases:     []string{"currency", "exchange"},
			Description: "Show the exchange rate between two currencies",
			Usage:       "cur 20 EUR in USD",
			Handler:     exchangeCmd(deps.Rates),
		})
	}
	if deps.Airports != nil {
		builtins = append(builtins, Command{
			Name:        "air",
			Aliases:     []string{"airport"},
			Description: "Look up an airport by IATA or ICAO code",
			Usage:       "air SEA",
			Handler:     airportCmd(deps.Airports),
		})
	}
	if deps.Plugins != nil {
		builtins = append(builtins, Command{
			Name:        "plugins",
			Description: "List loaded plugins",
			Handler:     listPlugins(deps.Plugins),
		})
	}

	for _, cmd := range builtins {
		cmd.Owner = BuiltinOwner
		if err := router.Register(cmd); err != nil {
			return err
		}
	}
	return nil
}
