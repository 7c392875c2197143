package shell

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
)

// scriptCommands are the shell commands exposed to Lua as mullsim_<name>.
var scriptCommands = []string{
	"add", "fill", "clear", "hero", "load", "save", "deck", "play",
	"basic", "demo", "state", "history",
}

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("mullsim_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// luaCommand runs a shell command with the Lua string argument appended and
// returns its output, or "ERROR: ..." on failure.
func luaCommand(name string) lua.LGFunction {
	return func(L *lua.LState) int {
		line := strings.TrimSpace(name + " " + L.OptString(1, ""))
		sc := getShell(L)
		r, err := sc.handle(line)
		if err != nil {
			log.Err(err).Msg("error-executing-" + name)
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		if r == nil {
			L.Push(lua.LString(""))
			return 1
		}
		L.Push(lua.LString(r.message))
		// return number of results pushed to stack.
		return 1
	}
}

// Hand solves a hand and returns the report followed by the best keep
// pattern and its score, so scripts can compare hands.
func Hand(L *lua.LState) int {
	lv := L.ToString(1)
	sc := getShell(L)
	r, err := sc.hand(&shellcmd{
		cmd:     "hand",
		args:    strings.Fields(lv),
		options: map[string]string{},
	})
	if err != nil {
		log.Err(err).Msg("error-executing-hand")
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	best := sc.lastReport.Best()
	L.Push(lua.LString(r.message))
	L.Push(lua.LString(best.Pattern))
	L.Push(lua.LNumber(best.Score()))
	return 3
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("mullsim_shell", lsc)
	L.SetGlobal("mullsim_hand", L.NewFunction(Hand))
	for _, name := range scriptCommands {
		L.SetGlobal("mullsim_"+name, L.NewFunction(luaCommand(name)))
	}

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return nil, nil
}
