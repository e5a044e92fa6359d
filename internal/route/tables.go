package route

import "github.com/sweeney/galerians-autosplitter/internal/game"

// KeyEventSplits splits on key items, story flags and boss rooms.
// Items picked up in the same room as another are not split separately.
var KeyEventSplits = Table{
	// stage A
	Item(game.SecurityCard),
	Item(game.FreezerRoomKey),
	Item(game.PpecStorageKey),
	Item(game.Fuse),
	Item(game.LiquidExplosive),
	Item(game.SpecialPpecOfficeKey),
	Item(game.SecurityCardReformatted),
	Item(game.PhotoOfParents),
	Item(game.TestLabKey),
	Item(game.ResearchLabKey),
	Item(game.TwoHeadedSnake),
	Item(game.TwoHeadedMonkey),
	Item(game.TwoHeadedWolf),
	Item(game.TwoHeadedEagle),
	Room(game.YourHouse1F, 11), // B0112
	// stage B
	Item(game.BackdoorKey),
	Item(game.SecondFloorKey),
	Item(game.DoorKnob),
	Item(game.BedroomKey),
	Item(game.MothersRing),
	Item(game.FathersRing),
	Item(game.ThreeBall),
	Item(game.NineBall),
	Item(game.ShedKey),
	Item(game.LiliasDoll),
	Room(game.Hotel1F, 0), // C0101
	// stage C
	Flag(game.StageC, 5),        // knock learned
	Flag(game.StageC, 17),       // knock answered
	Flag(game.StageC, 10),       // Crovic
	Flag(game.StageC, 144),      // priest
	Flag(game.StageC, 143),      // bomber
	Flag(game.StageC, 54),       // 3F hall cleared
	Flag(game.StageC, 145),      // Suzan
	Flag(game.StageC, 142),      // gunman
	Flag(game.StageC, 47),       // room 305 cleared
	Flag(game.StageC, 35),       // room 301 cleared
	Flag(game.StageC, 95),       // room 205 phone call
	Flag(game.StageC, 23),       // 2F hall cleared
	Flag(game.StageC, 11),       // room 202 cleared
	Room(game.Hotel3F, 4),       // C0305
	Room(game.Hotel3F, 6),       // C0307
	Room(game.Hotel1F, 5),       // C1101
	Room(game.MushroomTower, 0), // D0001
	// stage D
	Room(game.MushroomTower, 4), // D1001
	Room(game.MushroomTower, 7), // D1004
}

// DoorSplits splits on every door of the intended route. Hotel rooms that
// only play a video on first entry reload the current room, so those
// entries watch a flag instead of a room change.
var DoorSplits = Table{
	// stage A
	Room(game.Hospital15F, 1),                             // A1502
	Room(game.Hospital15F, 12),                            // A15RA
	Room(game.Hospital15F, 2),                             // A1503
	Room(game.Hospital15F, 11),                            // A1512
	Room(game.Hospital15F, 3),                             // A1504
	Room(game.Hospital15F, 11),                            // A1512
	Room(game.Hospital15F, 13),                            // A15RB
	Room(game.Hospital15F, 14),                            // A15RC
	Room(game.Hospital15F, 4),                             // A1505
	Room(game.Hospital15F, 14),                            // A15RC
	Room(game.Hospital15F, 6),                             // A1507
	Room(game.Hospital15F, 14),                            // A15RC
	Room(game.Hospital15F, 0),                             // A1501
	Room(game.Hospital15F, 14),                            // A15RC
	Room(game.Hospital14F, 10),                            // A14RA
	Room(game.Hospital14F, 1),                             // A1402
	Room(game.Hospital14F, 0),                             // A1508
	Room(game.Hospital14F, 8),                             // A1409
	Room(game.Hospital14F, 0),                             // A1508
	Room(game.Hospital14F, 1),                             // A1402
	Room(game.Hospital14F, 10),                            // A14RA
	Room(game.Hospital15F, 14),                            // A15RC
	Room(game.Hospital15F, 13),                            // A15RB
	EitherRoom(game.Hospital15F, 7, game.Hospital14F, 5),  // A1401
	Room(game.Hospital15F, 13),                            // A15RB
	Room(game.Hospital15F, 14),                            // A15RC
	Room(game.Hospital14F, 10),                            // A14RA
	Room(game.Hospital14F, 12),                            // A14RF
	Room(game.Hospital14F, 7),                             // A1408
	Room(game.Hospital13F, 15),                            // A13RA
	Room(game.Hospital13F, 0),                             // A1301
	Room(game.Hospital13F, 15),                            // A13RA
	EitherRoom(game.Hospital13F, 9, game.Hospital13F, 10), // A1310
	Room(game.Hospital13F, 16),                            // A13RB
	Room(game.Hospital13F, 1),                             // A1302
	Room(game.Hospital13F, 16),                            // A13RB
	EitherRoom(game.Hospital13F, 9, game.Hospital13F, 10), // A1310
	Room(game.Hospital14F, 13),                            // A14RG
	Room(game.Hospital14F, 2),                             // A1403
	Room(game.Hospital14F, 13),                            // A14RG
	EitherRoom(game.Hospital13F, 9, game.Hospital13F, 10), // A1310
	Room(game.Hospital13F, 5),                             // A1306
	EitherRoom(game.Hospital13F, 9, game.Hospital13F, 10), // A1310
	Room(game.Hospital13F, 7),                             // A1308
	Room(game.Hospital13F, 8),                             // A1309
	Room(game.Hospital13F, 7),                             // A1308
	EitherRoom(game.Hospital13F, 9, game.Hospital13F, 10), // A1310
	Room(game.Hospital13F, 11),                            // A1312
	EitherRoom(game.Hospital13F, 9, game.Hospital13F, 10), // A1310
	Room(game.Hospital13F, 15),                            // A13RA
	Room(game.Hospital13F, 2),                             // A1303
	Room(game.Hospital13F, 3),                             // A1304
	Room(game.Hospital13F, 17),                            // A13RC
	Room(game.Hospital13F, 4),                             // A1305
	Room(game.Hospital13F, 19),                            // A13RE
	Room(game.Hospital14F, 18),                            // A14KD
	Room(game.Hospital14F, 4),                             // A1405
	// stage B
	Room(game.YourHouse1F, 11), // B0112
	Room(game.YourHouse1F, 9),  // B0110
	Room(game.YourHouse1F, 3),  // B0104
	Room(game.YourHouse1F, 12), // B01RA
	Room(game.YourHouse1F, 5),  // B0106
	Room(game.YourHouse1F, 12), // B01RA
	Room(game.YourHouse1F, 13), // B01RB
	Room(game.YourHouse1F, 14), // B01RC
	Room(game.YourHouse1F, 7),  // B0108
	Room(game.YourHouse1F, 14), // B01RC
	Room(game.YourHouse1F, 13), // B01RB
	Room(game.YourHouse1F, 12), // B01RA
	Room(game.YourHouse1F, 3),  // B0104
	Room(game.YourHouse1F, 0),  // B0101
	Room(game.YourHouse2F, 0),  // B0201
	Room(game.YourHouse2F, 9),  // B02RA
	Room(game.YourHouse2F, 1),  // B0202
	Room(game.YourHouse2F, 9),  // B02RA
	Room(game.YourHouse2F, 10), // B02RB
	Room(game.YourHouse2F, 11), // B02RC
	Room(game.YourHouse2F, 10), // B02RB
	Room(game.YourHouse1F, 13), // B01RB
	Room(game.YourHouse1F, 12), // B01RA
	Room(game.YourHouse1F, 4),  // B0105
	Room(game.YourHouse1F, 12), // B01RA
	Room(game.YourHouse1F, 3),  // B0104
	Room(game.YourHouse1F, 0),  // B0101
	Room(game.YourHouse2F, 0),  // B0201
	Room(game.YourHouse2F, 9),  // B02RA
	Room(game.YourHouse2F, 10), // B02RB
	Room(game.YourHouse2F, 11), // B02RC
	Room(game.YourHouse2F, 6),  // B0207
	Room(game.YourHouse2F, 11), // B02RC
	Room(game.YourHouse2F, 10), // B02RB
	Room(game.YourHouse2F, 9),  // B02RA
	Room(game.YourHouse2F, 3),  // B0204
	Room(game.YourHouse2F, 2),  // B0203
	Room(game.YourHouse2F, 3),  // B0204
	Room(game.YourHouse2F, 9),  // B02RA
	Room(game.YourHouse2F, 0),  // B0201
	Room(game.YourHouse1F, 0),  // B0101
	Room(game.YourHouse1F, 11), // B0112
	Room(game.YourHouse1F, 9),  // B0110
	Room(game.YourHouse1F, 3),  // B0104
	Room(game.YourHouse1F, 12), // B01RA
	Room(game.YourHouse1F, 13), // B01RB
	Room(game.YourHouse1F, 14), // B01RC
	Room(game.YourHouse1F, 7),  // B0108
	Room(game.YourHouse1F, 15), // B0001
	Room(game.YourHouse1F, 7),  // B0108
	Room(game.YourHouse1F, 14), // B01RC
	Room(game.YourHouse1F, 13), // B01RB
	Room(game.YourHouse1F, 12), // B01RA
	Room(game.YourHouse1F, 3),  // B0104
	Room(game.YourHouse1F, 0),  // B0101
	Room(game.YourHouse1F, 11), // B0112
	Room(game.YourHouse1F, 10), // B0111
	Room(game.YourHouse1F, 2),  // B0103
	Room(game.YourHouse1F, 10), // B0111
	// stage C
	Room(game.Hotel1F, 0), // C0101
	Room(game.Hotel3F, 6), // C0307
	Room(game.Hotel3F, 1), // C0302
	Room(game.Hotel3F, 6), // C0307
	Flag(game.StageC, 50), // room 306 video
	Room(game.Hotel1F, 0), // C0101
	Room(game.Hotel1F, 1), // C0102
	Room(game.Hotel1F, 0), // C0101
	Room(game.Hotel2F, 6), // C0207
	Room(game.Hotel2F, 3), // C0204
	Room(game.Hotel2F, 6), // C0207
	Room(game.Hotel2F, 0), // C0201
	Room(game.Hotel2F, 6), // C0207
	Flag(game.StageC, 27), // room 206 video
	Room(game.Hotel2F, 5), // C0206
	Room(game.Hotel2F, 6), // C0207
	Flag(game.StageC, 15), // room 203 video
	Room(game.Hotel2F, 2), // C0203
	Room(game.Hotel2F, 6), // C0207
	Room(game.Hotel3F, 6), // C0307
	Flag(game.StageC, 44), // room 304 video
	Room(game.Hotel3F, 3), // C0304
	Room(game.Hotel3F, 6), // C0307
	Flag(game.StageC, 41), // room 303 video
	Room(game.Hotel3F, 2), // C0303
	Room(game.Hotel3F, 6), // C0307
	Room(game.Hotel3F, 4), // C0305
	Room(game.Hotel3F, 6), // C0307
	Room(game.Hotel3F, 0), // C0301
	Room(game.Hotel3F, 6), // C0307
	Room(game.Hotel2F, 6), // C0207
	Room(game.Hotel2F, 4), // C0205
	Room(game.Hotel2F, 6), // C0207
	Room(game.Hotel2F, 1), // C0202
	Room(game.Hotel2F, 6), // C0207
	Room(game.Hotel3F, 6), // C0307
	Room(game.Hotel3F, 4), // C0305
	Room(game.Hotel3F, 6), // C0307
	Room(game.Hotel1F, 0), // C0101
	Room(game.Hotel1F, 1), // C0102
	Room(game.Hotel1F, 0), // C0101
	Room(game.Hotel1F, 4), // C1001
	Room(game.Hotel1F, 6), // C1102
	Room(game.Hotel1F, 8), // C1104
	Room(game.Hotel1F, 6), // C1102
	Room(game.Hotel1F, 5), // C1101
	// stage D
	Room(game.MushroomTower, 0), // D0001
	Room(game.MushroomTower, 8), // D0101
	Room(game.MushroomTower, 0), // D0001
	Room(game.MushroomTower, 1), // D0002
	Room(game.MushroomTower, 8), // D0101
	Room(game.MushroomTower, 1), // D0002
	Room(game.MushroomTower, 2), // D0003
	Room(game.MushroomTower, 8), // D0101
	Room(game.MushroomTower, 2), // D0003
	Room(game.MushroomTower, 3), // D0004
	Room(game.MushroomTower, 8), // D0101
	Room(game.MushroomTower, 3), // D0004
	Room(game.MushroomTower, 4), // D1001
	Room(game.MushroomTower, 7), // D1004
}
