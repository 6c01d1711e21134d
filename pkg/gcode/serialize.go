package gcode

import "fmt"

// Format renders a command as its wire-dialect line, trailing newline
// included. The field widths and precisions are the compatibility
// contract with the downstream controller and must not change: positions
// carry 3 decimals, Z fields in pick and place blocks are left-justified
// to 6 columns, the setup clearance move carries 1 decimal.
func Format(c Command) string {
	switch c.Kind {
	case KindComment:
		return fmt.Sprintf("; %s\n", c.Text)
	case KindBlockHeader:
		return fmt.Sprintf(";; -- %s\n", c.Text)
	case KindBlank:
		return "\n"

	case KindHomeXY:
		return "G28 X0 Y0  ; Home (x/y) - needle over free space\n"
	case KindHomeZ:
		return "G28 Z0     ; Now it is safe to home z\n"
	case KindUnitsMM:
		return "G21        ; set to mm\n"
	case KindSelectRotaryTool:
		return "T1         ; Use E1 extruder, our 'A' axis.\n"
	case KindColdExtrudeOverride:
		return "M302       ; cold extrusion override - because it is not actually an extruder.\n"
	case KindAbsoluteMode:
		return "G90        ; Use absolute positions in general.\n"
	case KindZeroRotation:
		return "G92 E0     ; 'home' E axis\n"
	case KindClearanceMove:
		return fmt.Sprintf("G1 Z%.1f E0 ; Move needle out of way\n", c.Z)

	case KindPickMove:
		return fmt.Sprintf("G0 F%d X%.3f Y%.3f Z%.3f E%.3f ; Move over component to pick.\n",
			c.Feed, c.X, c.Y, c.Z, c.A)
	case KindPickDescend:
		return fmt.Sprintf("G1 Z%-6.2f   F4000 ; move down on tape.\n", c.Z)
	case KindPickFlush:
		return "G4           ; flush buffer\n"
	case KindVacuumOn:
		return "M42 P6 S255  ; turn on suckage\n"
	case KindPickAscend:
		return fmt.Sprintf("G1 Z%-6.3f   ; Move up a bit for travelling\n", c.Z)

	case KindPlaceMove:
		return fmt.Sprintf("G0 F%d X%.3f Y%.3f Z%.3f E%.3f ; Move component to place on board.\n",
			c.Feed, c.X, c.Y, c.Z, c.A)
	case KindPlaceDescend:
		return fmt.Sprintf("G1 Z%-6.3f F4000 ; move down over board thickness.\n", c.Z)
	case KindPlaceFlush:
		return "G4            ; flush buffer.\n"
	case KindVacuumOff:
		return "M42 P6 S0     ; turn off suckage\n"
	case KindBlowOn:
		return "M42 P8 S255   ; blow\n"
	case KindReleaseDwell:
		return fmt.Sprintf("G4 P%-9.0f ; .. for %.0fms\n", c.Ms, c.Ms)
	case KindBlowOff:
		return "M42 P8 S0     ; done.\n"
	case KindPlaceAscend:
		return fmt.Sprintf("G1 Z%-6.2f    ; Move up\n", c.Z)

	case KindDispenseMove:
		return fmt.Sprintf("G0 X%.3f Y%.3f Z%.3f   ; move there.\n", c.X, c.Y, c.Z)
	case KindDispenseDescend:
		return fmt.Sprintf("G1 Z%.2f ; Go down to dispense\n", c.Z)
	case KindDispenserOn:
		return "M106      ; switch on fan (=solenoid)\n"
	case KindDispenseDwell:
		return fmt.Sprintf("G4 P%-5.1f ; Wait time dependent on area %.2f mm^2\n", c.Ms, c.Area)
	case KindDispenserOff:
		return "M107      ; switch off solenoid\n"
	case KindDispenseAscend:
		return fmt.Sprintf("G1 Z%.2f ; high above to have paste separated\n", c.Z)

	case KindFinishHomeXY:
		return "G28 X0 Y0  ; Home x/y, but leave z clear\n"
	case KindMotorsOff:
		return "M84        ; stop motors\n"
	}
	return fmt.Sprintf("; unhandled command kind %d\n", int(c.Kind))
}
