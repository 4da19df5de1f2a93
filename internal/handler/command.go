package handler

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/afelia/fakewater/internal/locale"
	"github.com/afelia/fakewater/internal/world"
	"github.com/df-mc/dragonfly/server/block/cube"
	"go.uber.org/zap"
)

// CommandSender is whoever typed a command: a player or the console.
type CommandSender interface {
	SendMessage(msg string)
}

// ConsoleSender writes replies to the server console.
type ConsoleSender struct {
	W io.Writer
}

func (c ConsoleSender) SendMessage(msg string) {
	fmt.Fprintln(c.W, msg)
}

// BucketsPerGrant is how many marked buckets getfakewaterbucket hands out.
const BucketsPerGrant = 2

type consoleCommand struct {
	usage string
	nargs int // minimum argument count
	run   func(sender CommandSender, args []string, deps *Deps)
}

var consoleCommands map[string]consoleCommand

func init() {
	consoleCommands = map[string]consoleCommand{
		"help":     {"help", 0, cmdHelp},
		"status":   {"status", 0, cmdStatus},
		"save":     {"save", 0, cmdSave},
		"join":     {"join <player> <world> <x> <y> <z>", 5, cmdJoin},
		"quit":     {"quit <player>", 1, cmdQuit},
		"move":     {"move <player> <x> <y> <z>", 4, cmdMove},
		"give":     {"give <player>", 1, cmdGive},
		"setblock": {"setblock <world> <x> <y> <z> <material>", 5, cmdSetBlock},
		"form":     {"form <world> <x> <y> <z> <material>", 5, cmdForm},
		"flow":     {"flow <world> <x> <y> <z> <face>", 5, cmdFlow},
		"fill":     {"fill <player> <x> <y> <z> <face>", 5, cmdFill},
		"empty":    {"empty <player> <x> <y> <z> <face>", 5, cmdEmpty},
		"damage":   {"damage <player> <cause> <amount>", 3, cmdDamage},
		"flood":    {"flood <world> <x> <y> <z> [radius]", 4, cmdFlood},
		"tag":      {"tag <world> <x> <y> <z>", 4, cmdTag},
		"untag":    {"untag <world> <x> <y> <z>", 4, cmdUntag},
		"as":       {"as <player> <command...>", 2, cmdAs},
	}
}

// HandleCommand runs one command line. Players may only use player
// commands; the console may use everything.
func HandleCommand(sender CommandSender, line string, deps *Deps) {
	parts := strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), "/"))
	if len(parts) == 0 {
		return
	}
	name := strings.ToLower(parts[0])
	args := parts[1:]

	if name == "getfakewaterbucket" {
		cmdGetFakeWaterBucket(sender, deps)
		return
	}

	cmd, ok := consoleCommands[name]
	if _, isPlayer := sender.(*world.PlayerInfo); isPlayer || !ok {
		sender.SendMessage(deps.Locale.Sprintf(locale.MsgUnknownCommand, name))
		return
	}
	if len(args) < cmd.nargs {
		sender.SendMessage(deps.Locale.Sprintf(locale.MsgUsage, cmd.usage))
		return
	}
	cmd.run(sender, args, deps)
}

func cmdGetFakeWaterBucket(sender CommandSender, deps *Deps) {
	p, ok := sender.(*world.PlayerInfo)
	if !ok {
		sender.SendMessage(deps.Locale.Sprintf(locale.MsgPlayersOnly))
		return
	}
	GiveFakeWaterBuckets(p, deps)
}

// GiveFakeWaterBuckets adds BucketsPerGrant marked buckets to p's inventory.
func GiveFakeWaterBuckets(p *world.PlayerInfo, deps *Deps) int {
	bucket := NewFakeWaterBucket(deps.Locale.Sprintf(locale.MsgBucketName))
	given := 0
	for i := 0; i < BucketsPerGrant; i++ {
		if p.Inv.AddItem(bucket) == nil {
			p.SendMessage(deps.Locale.Sprintf(locale.MsgInventoryFull))
			break
		}
		given++
	}
	if given > 0 {
		p.SendMessage(deps.Locale.Sprintf(locale.MsgReceivedBucket))
	}
	deps.Log.Info("gave fake water buckets", zap.String("player", p.Name), zap.Int("count", given))
	return given
}

func cmdHelp(sender CommandSender, _ []string, _ *Deps) {
	names := make([]string, 0, len(consoleCommands)+1)
	for _, c := range consoleCommands {
		names = append(names, c.usage)
	}
	names = append(names, "getfakewaterbucket")
	sort.Strings(names)
	for _, n := range names {
		sender.SendMessage("  " + n)
	}
}

func cmdStatus(sender CommandSender, _ []string, deps *Deps) {
	sender.SendMessage(fmt.Sprintf("worlds=%s players=%d tags=%d dirty=%v",
		strings.Join(deps.World.WorldNames(), ","), deps.World.PlayerCount(), deps.Tags.Len(), deps.Tags.Dirty()))
	deps.World.AllPlayers(func(p *world.PlayerInfo) {
		sender.SendMessage(fmt.Sprintf("  %s %s health=%.1f dead=%v buckets=%d",
			p.Name, p.FeetCell(), p.Health, p.Dead, p.Inv.CountTagged(FakeWaterTag)))
	})
}

func cmdSave(sender CommandSender, _ []string, deps *Deps) {
	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.Storage.IOTimeout)
	defer cancel()
	if err := deps.Tags.SaveAll(ctx); err != nil {
		sender.SendMessage(deps.Locale.Sprintf(locale.MsgSaveFailed, err))
		return
	}
	sender.SendMessage(deps.Locale.Sprintf(locale.MsgSaved, deps.Tags.Len()))
}

func cmdJoin(sender CommandSender, args []string, deps *Deps) {
	pos, ok := parsePos(args[2:5])
	if !ok {
		sender.SendMessage(deps.Locale.Sprintf(locale.MsgUsage, consoleCommands["join"].usage))
		return
	}
	if !deps.World.HasWorld(args[1]) {
		sender.SendMessage(deps.Locale.Sprintf(locale.MsgUnknownWorld, args[1]))
		return
	}
	if _, ok := deps.World.AddPlayer(args[0], args[1], pos); !ok {
		sender.SendMessage(deps.Locale.Sprintf(locale.MsgRejected, args[0]))
		return
	}
	sender.SendMessage(deps.Locale.Sprintf(locale.MsgOK))
}

func cmdQuit(sender CommandSender, args []string, deps *Deps) {
	p := lookupPlayer(sender, args[0], deps)
	if p == nil {
		return
	}
	deps.World.RemovePlayer(p.ID)
	sender.SendMessage(deps.Locale.Sprintf(locale.MsgOK))
}

func cmdMove(sender CommandSender, args []string, deps *Deps) {
	p := lookupPlayer(sender, args[0], deps)
	if p == nil {
		return
	}
	pos, ok := parsePos(args[1:4])
	if !ok {
		sender.SendMessage(deps.Locale.Sprintf(locale.MsgUsage, consoleCommands["move"].usage))
		return
	}
	deps.World.MovePlayer(p, pos)
	sender.SendMessage(deps.Locale.Sprintf(locale.MsgOK))
}

func cmdGive(sender CommandSender, args []string, deps *Deps) {
	if p := lookupPlayer(sender, args[0], deps); p != nil {
		GiveFakeWaterBuckets(p, deps)
	}
}

func cmdSetBlock(sender CommandSender, args []string, deps *Deps) {
	c, ok := parseCoord(sender, args, deps)
	if !ok {
		return
	}
	m, ok := world.ParseMaterial(args[4])
	if !ok {
		sender.SendMessage(deps.Locale.Sprintf(locale.MsgRejected, args[4]))
		return
	}
	deps.World.SetMaterial(c, m)
	sender.SendMessage(deps.Locale.Sprintf(locale.MsgOK))
}

func cmdForm(sender CommandSender, args []string, deps *Deps) {
	c, ok := parseCoord(sender, args, deps)
	if !ok {
		return
	}
	m, ok := world.ParseMaterial(args[4])
	if !ok {
		sender.SendMessage(deps.Locale.Sprintf(locale.MsgRejected, args[4]))
		return
	}
	deps.World.FormBlock(c, m)
	sender.SendMessage(fmt.Sprintf("%s now %s tagged=%v", c, deps.World.Material(c), deps.Tags.IsTagged(c)))
}

func cmdFlow(sender CommandSender, args []string, deps *Deps) {
	from, ok := parseCoord(sender, args, deps)
	if !ok {
		return
	}
	face, ok := parseFace(args[4])
	if !ok {
		sender.SendMessage(deps.Locale.Sprintf(locale.MsgRejected, args[4]))
		return
	}
	to := from.Side(face)
	if !deps.World.FlowFluid(from, to) {
		sender.SendMessage(deps.Locale.Sprintf(locale.MsgRejected, to.String()))
		return
	}
	sender.SendMessage(fmt.Sprintf("%s -> %s tagged=%v", from, to, deps.Tags.IsTagged(to)))
}

func cmdFill(sender CommandSender, args []string, deps *Deps) {
	bucketCommand(sender, args, deps, deps.World.FillBucket)
}

func cmdEmpty(sender CommandSender, args []string, deps *Deps) {
	bucketCommand(sender, args, deps, deps.World.EmptyBucket)
}

func bucketCommand(sender CommandSender, args []string, deps *Deps, use func(*world.PlayerInfo, world.Coord, cube.Face) bool) {
	p := lookupPlayer(sender, args[0], deps)
	if p == nil {
		return
	}
	pos, ok := parsePos(args[1:4])
	face, okFace := parseFace(args[4])
	if !ok || !okFace {
		sender.SendMessage(deps.Locale.Sprintf(locale.MsgRejected, strings.Join(args[1:], " ")))
		return
	}
	clicked := world.Coord{World: p.World, Pos: pos}
	if !use(p, clicked, face) {
		sender.SendMessage(deps.Locale.Sprintf(locale.MsgRejected, clicked.Side(face).String()))
		return
	}
	target := clicked.Side(face)
	sender.SendMessage(fmt.Sprintf("%s now %s tagged=%v", target, deps.World.Material(target), deps.Tags.IsTagged(target)))
}

func cmdDamage(sender CommandSender, args []string, deps *Deps) {
	p := lookupPlayer(sender, args[0], deps)
	if p == nil {
		return
	}
	amount, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		sender.SendMessage(deps.Locale.Sprintf(locale.MsgRejected, args[2]))
		return
	}
	applied := deps.World.DamagePlayer(p, world.DamageCause(strings.ToLower(args[1])), amount)
	sender.SendMessage(fmt.Sprintf("%s applied=%v health=%.1f", p.Name, applied, p.Health))
}

func cmdFlood(sender CommandSender, args []string, deps *Deps) {
	c, ok := parseCoord(sender, args, deps)
	if !ok {
		return
	}
	requested := -1
	if len(args) > 4 {
		r, err := strconv.Atoi(args[4])
		if err != nil || r < 0 {
			sender.SendMessage(deps.Locale.Sprintf(locale.MsgRejected, args[4]))
			return
		}
		requested = r
	}
	res := Flood(deps.World, deps.Tags, c, FloodRadius(requested, deps))
	deps.Log.Info("flood tagged fake water",
		zap.Stringer("start", c), zap.Int("visited", len(res.Visited)), zap.Int("new", res.Newly))
	sender.SendMessage(deps.Locale.Sprintf(locale.MsgFlooded, len(res.Visited)))
}

func cmdTag(sender CommandSender, args []string, deps *Deps) {
	if c, ok := parseCoord(sender, args, deps); ok {
		deps.Tags.SetTagged(c, true)
		sender.SendMessage(deps.Locale.Sprintf(locale.MsgOK))
	}
}

func cmdUntag(sender CommandSender, args []string, deps *Deps) {
	if c, ok := parseCoord(sender, args, deps); ok {
		deps.Tags.SetTagged(c, false)
		sender.SendMessage(deps.Locale.Sprintf(locale.MsgOK))
	}
}

// cmdAs runs the rest of the line with a player as the sender.
func cmdAs(sender CommandSender, args []string, deps *Deps) {
	p := lookupPlayer(sender, args[0], deps)
	if p == nil {
		return
	}
	HandleCommand(p, strings.Join(args[1:], " "), deps)
}

// ---------- argument helpers ----------

func lookupPlayer(sender CommandSender, name string, deps *Deps) *world.PlayerInfo {
	p := deps.World.PlayerByName(name)
	if p == nil {
		sender.SendMessage(deps.Locale.Sprintf(locale.MsgUnknownPlayer, name))
	}
	return p
}

// parseCoord reads <world> <x> <y> <z> from the front of args.
func parseCoord(sender CommandSender, args []string, deps *Deps) (world.Coord, bool) {
	if !deps.World.HasWorld(args[0]) {
		sender.SendMessage(deps.Locale.Sprintf(locale.MsgUnknownWorld, args[0]))
		return world.Coord{}, false
	}
	pos, ok := parsePos(args[1:4])
	if !ok {
		sender.SendMessage(deps.Locale.Sprintf(locale.MsgRejected, strings.Join(args[1:4], " ")))
		return world.Coord{}, false
	}
	return world.Coord{World: args[0], Pos: pos}, true
}

func parsePos(fields []string) (cube.Pos, bool) {
	var pos cube.Pos
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return cube.Pos{}, false
		}
		pos[i] = v
	}
	return pos, true
}

var faceNames = map[string]cube.Face{
	"down":  cube.FaceDown,
	"up":    cube.FaceUp,
	"north": cube.FaceNorth,
	"south": cube.FaceSouth,
	"west":  cube.FaceWest,
	"east":  cube.FaceEast,
}

func parseFace(s string) (cube.Face, bool) {
	f, ok := faceNames[strings.ToLower(s)]
	return f, ok
}
