package monitor

import (
	"testing"

	"github.com/urmzd/wardwatch/pkg/device"
)

func sighting(addr device.Address, rssi int) device.Sighting {
	return device.Sighting{Address: addr, RSSI: rssi}
}

func TestDepartmentLocator_NonBeaconIgnored(t *testing.T) {
	d := NewDepartmentLocator(DefaultBeacons())

	ev, matched := d.OnSighting(sighting(phoneA, -50), 1000)
	if matched || ev != nil {
		t.Errorf("expected no match, got matched=%v ev=%v", matched, ev)
	}
	if d.Current != DepartmentNone {
		t.Errorf("expected no department, got %q", d.Current)
	}
}

func TestDepartmentLocator_FirstSightingAnnounces(t *testing.T) {
	d := NewDepartmentLocator(DefaultBeacons())

	ev, matched := d.OnSighting(sighting(pediatric, -60), 1000)
	if !matched || ev == nil {
		t.Fatalf("expected announcement, got matched=%v ev=%v", matched, ev)
	}
	if ev.Department != "Pediatric dept" || ev.RSSI != -60 || ev.Timestamp != 1000 {
		t.Errorf("unexpected event %+v", ev)
	}
	if d.LastPublished != "Pediatric dept" {
		t.Errorf("expected last published to follow, got %q", d.LastPublished)
	}
}

func TestDepartmentLocator_SuppressesRepeats(t *testing.T) {
	d := NewDepartmentLocator(DefaultBeacons())

	announced := 0
	for now := int64(1000); now <= 120000; now += 7500 {
		if ev, _ := d.OnSighting(sighting(pediatric, -60), now); ev != nil {
			announced++
		}
	}
	if announced != 1 {
		t.Errorf("expected 1 announcement for continuous sightings, got %d", announced)
	}
}

func TestDepartmentLocator_ReannouncesAfterGap(t *testing.T) {
	d := NewDepartmentLocator(DefaultBeacons())
	d.OnSighting(sighting(pediatric, -60), 1000)

	if ev, _ := d.OnSighting(sighting(pediatric, -60), 61000); ev != nil {
		t.Error("a gap of exactly 60s should not re-announce")
	}
	if ev, _ := d.OnSighting(sighting(pediatric, -60), 121001); ev == nil {
		t.Error("a gap over 60s should re-announce")
	}
}

func TestDepartmentLocator_ChangeAnnouncesImmediately(t *testing.T) {
	d := NewDepartmentLocator(DefaultBeacons())
	d.OnSighting(sighting(pediatric, -60), 1000)

	ev, _ := d.OnSighting(sighting(cardiac, -70), 1001)
	if ev == nil || ev.Department != "Cardiac dept" {
		t.Fatalf("expected cardiac announcement, got %v", ev)
	}

	ev, _ = d.OnSighting(sighting(pediatric, -60), 1002)
	if ev == nil || ev.Department != "Pediatric dept" {
		t.Errorf("expected pediatric announcement on change back, got %v", ev)
	}
	if d.LastAnySeenMs != 1002 {
		t.Errorf("expected last any-seen 1002, got %d", d.LastAnySeenMs)
	}
}

func TestDepartmentLocator_Force(t *testing.T) {
	d := NewDepartmentLocator(DefaultBeacons())
	b, i, ok := d.ByKey("ARG2")
	if !ok || i != 1 {
		t.Fatalf("expected arg2 beacon at 1, got %v %d", ok, i)
	}

	ev := d.Force(b, 5000)
	if ev.Department != "Cardiac dept" || ev.RSSI != 0 || ev.Timestamp != 5000 {
		t.Errorf("unexpected event %+v", ev)
	}
	if d.Current != "Cardiac dept" || d.LastPublished != "Cardiac dept" {
		t.Errorf("expected current and last published to be cardiac, got %q/%q", d.Current, d.LastPublished)
	}
	if d.LastAnySeenMs != 0 {
		t.Error("forcing must not count as a sighting")
	}
}

func TestDepartmentLocator_ExtraBeacons(t *testing.T) {
	icu := device.MustParseAddress("AA:BB:CC:DD:EE:03")
	beacons := append(DefaultBeacons(), Beacon{Key: "arg3", Address: icu, Department: "ICU"})
	d := NewDepartmentLocator(beacons)

	ev, matched := d.OnSighting(sighting(icu, -40), 1000)
	if !matched || ev == nil || ev.Department != "ICU" {
		t.Errorf("expected ICU announcement, got matched=%v ev=%v", matched, ev)
	}
}

func TestDepartmentLocator_SetBeacons(t *testing.T) {
	d := NewDepartmentLocator(DefaultBeacons())
	d.OnSighting(device.Sighting{Address: DefaultBeacons()[0].Address}, 1000)
	d.OnSighting(device.Sighting{Address: DefaultBeacons()[1].Address}, 2000)

	icu := Beacon{Key: "icu", Address: device.MustParseAddress("AA:BB:CC:DD:EE:09"), Department: "ICU"}
	d.SetBeacons([]Beacon{DefaultBeacons()[1], icu})

	if _, ok := d.LastSeenMs["Pediatric dept"]; ok {
		t.Error("expected the removed department's sighting time to be forgotten")
	}
	if d.LastSeenMs["Cardiac dept"] != 2000 {
		t.Errorf("expected cardiac sighting time to survive, got %d", d.LastSeenMs["Cardiac dept"])
	}
	if _, _, ok := d.ByKey("arg1"); ok {
		t.Error("expected arg1 to be gone")
	}
	if ev, matched := d.OnSighting(device.Sighting{Address: icu.Address, RSSI: -40}, 3000); !matched || ev == nil || ev.Department != "ICU" {
		t.Errorf("expected the new beacon to announce, got %v %+v", matched, ev)
	}
}
